package config

var ExampleSettings = `
hass_url: http://ha.lan:8123
hass_token: secret
data_dir: /var/lib/dashhome
port: 6060
storage:
  driver: redis
  redis_addr: redis:6379
mqtt:
  broker: tcp://mqtt.lan:1883
  prefix: home
log:
  level: debug
  format: json
`

var ExampleApp = `
version: 1
connection:
  hass_url: http://ha.lan:8123
  token_stored: true
locale: en
hacs_cards:
- name: mushroom
  url: /hacsfiles/mushroom.js
  version: 3.0.0
sidebar:
  width: 320
  visible: false
`
