package services

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeService struct {
	id      string
	inited  bool
	initErr error
	runErr  error
	block   bool
}

func (self *fakeService) ID() string { return self.id }

func (self *fakeService) Init() error {
	self.inited = true
	return self.initErr
}

func (self *fakeService) Run(ctx context.Context) error {
	if self.block {
		<-ctx.Done()
		return nil
	}
	return self.runErr
}

func register(t *testing.T, service Service) {
	require.NoError(t, Register(service))
	t.Cleanup(func() { Unregister(service.ID()) })
}

func TestRegisterDuplicate(t *testing.T) {
	register(t, &fakeService{id: "one"})
	assert.Error(t, Register(&fakeService{id: "one"}))
	assert.Contains(t, Registered(), "one")
}

func TestLaunchUnknown(t *testing.T) {
	assert.Error(t, Launch(context.Background(), []string{"nope"}, nil))
}

func TestLaunchRunsUntilCancelled(t *testing.T) {
	a := &fakeService{id: "a", block: true}
	b := &fakeService{id: "b", block: true}
	register(t, a)
	register(t, b)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.NoError(t, Launch(ctx, []string{"a", "b"}, zap.NewNop()))
	assert.True(t, a.inited)
	assert.True(t, b.inited)
}

func TestLaunchFailureCancelsOthers(t *testing.T) {
	register(t, &fakeService{id: "ok", block: true})
	register(t, &fakeService{id: "bad", runErr: errors.New("boom")})
	err := Launch(context.Background(), []string{"ok", "bad"}, nil)
	assert.EqualError(t, err, "running service bad: boom")
}

func TestLaunchInitFailure(t *testing.T) {
	register(t, &fakeService{id: "x", initErr: errors.New("no")})
	err := Launch(context.Background(), []string{"x"}, nil)
	assert.EqualError(t, err, "init service x: no")
}

func TestSetupLogging(t *testing.T) {
	logger, err := SetupLogging("debug", "json", "test")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = SetupLogging("bogus", "console", "")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}
