package dashboard

var ExampleYaml = `
version: 1
theme: sap_horizon_dark
accent_color: "#0070f3"
sidebar_visible: true
default_view: overview
views:
- id: overview
  name: Overview
  icon: mdi:home
  type: grid
  layout:
    columns: auto
    min_column_width: 280
  sections:
  - id: lights
    title: Lights
    items:
    - id: card-kitchen
      type: light
      entity: light.kitchen
      size: 2x1
      config:
        show_brightness: true
        tap:
          action: toggle
      order: 0
    - id: card-hall
      type: light
      entity: light.hall
      size: 1x1
      order: 1
    - id: card-desk
      type: light
      entity: light.desk
      size: 1x1
      order: 2
      visible: false
  - id: climate
    title: Climate
    subsections:
    - id: climate-upstairs
      title: Upstairs
      items:
      - id: card-bedroom-temp
        type: sensor
        entity: sensor.bedroom_temperature
        order: 0
- id: rooms
  name: Rooms
  type: object_page
  area: kitchen
  sections:
  - id: kitchen
    title: Kitchen
    items:
    - id: card-kettle
      type: switch
      entity: switch.kettle
      order: 0
`

// Example returns a freshly parsed example document.
func Example() *Config {
	doc, err := Parse([]byte(ExampleYaml))
	if err != nil {
		panic(err)
	}
	return doc
}
