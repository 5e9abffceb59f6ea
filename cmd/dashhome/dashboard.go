package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/dashhome/dashhome/apiclient"
	"github.com/dashhome/dashhome/config"
	"github.com/dashhome/dashhome/dashboard"
	"github.com/dashhome/dashhome/util"
)

func dashboardCommand(settings *config.Settings, logger *zap.Logger, ps []string) error {
	if len(ps) < 1 {
		usage()
		return nil
	}
	client := apiclient.New(settings.Client.API, logger.Named("client"))
	switch ps[0] {
	case "get":
		doc, err := client.GetDashboard()
		if err != nil {
			return err
		}
		data, err := dashboard.Marshal(doc)
		if err != nil {
			return err
		}
		if len(ps) < 2 || ps[1] == "-" {
			_, err = os.Stdout.Write(data)
			return err
		}
		return errors.Wrapf(os.WriteFile(util.ExpandUser(ps[1]), data, 0644), "writing %s", ps[1])
	case "put":
		if len(ps) < 2 {
			usage()
			return nil
		}
		data, err := os.ReadFile(util.ExpandUser(ps[1]))
		if err != nil {
			return errors.Wrapf(err, "reading %s", ps[1])
		}
		doc, err := dashboard.Parse(data)
		if err != nil {
			return err
		}
		if err := client.PutDashboard(doc); err != nil {
			return err
		}
		fmt.Printf("Updated dashboard (%d views, %d cards)\n", len(doc.Views), len(doc.CardIDs()))
		return nil
	}
	usage()
	return nil
}
