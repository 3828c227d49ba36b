// Package publisher mirrors device snapshots to an MQTT broker and accepts
// commands on "set" topics.
//
// Topics, relative to the configured prefix:
//
//	availability                      bridge online|offline, retained, also the last will
//	<device>/state                    retained snapshot JSON
//	<device>/availability             retained online|offline
//	<device>/system/power/set         ON|OFF
//	<device>/zone/<n>/setpoint/set    temperature
//	<device>/zone/<n>/power/set       ON|OFF
//	<device>/hc/<n>/mode/set          heat|cool|auto or 0|1|2
package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"messana_bridge/internal/logger"
	"messana_bridge/internal/service"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const (
	availabilityOnline  = "online"
	availabilityOffline = "offline"

	updateQueue = 16

	qosAtLeastOnce    = 1
	connectTimeout    = 10 * time.Second
	publishTimeout    = 5 * time.Second
	commandTimeout    = 60 * time.Second
	disconnectQuiesce = 250 // ms
)

// Config is the broker connection.
type Config struct {
	Broker      string
	ClientID    string
	TopicPrefix string
	Username    string
	Password    string
}

// conn is the part of mqtt.Client the bridge uses.
type conn interface {
	Connect() mqtt.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
	Disconnect(quiesce uint)
}

// Bridge publishes every refresh cycle and dispatches commands to the
// control service.
type Bridge struct {
	conn     conn
	prefix   string
	services *service.Service
	log      *logger.Logger

	updates chan service.Update
	wg      sync.WaitGroup

	mu          sync.Mutex
	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()
}

// New builds a bridge with a paho client. Nothing connects until Start.
func New(cfg Config, services *service.Service, log *logger.Logger) *Bridge {
	b := newBridge(nil, cfg.TopicPrefix, services, log)

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	opts.SetUsername(cfg.Username)
	opts.SetPassword(cfg.Password)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(connectTimeout)
	// commands wait for a refresh; let paho run handlers concurrently
	opts.SetOrderMatters(false)
	opts.SetWill(b.bridgeAvailabilityTopic(), availabilityOffline, qosAtLeastOnce, true)
	opts.OnConnect = func(mqtt.Client) { b.onConnect() }
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		b.log.Warnw("mqtt_connection_lost", "err", err)
	}

	b.conn = mqtt.NewClient(opts)
	return b
}

func newBridge(c conn, prefix string, services *service.Service, log *logger.Logger) *Bridge {
	if log == nil {
		log = logger.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Bridge{
		conn:     c,
		prefix:   strings.Trim(prefix, "/"),
		services: services,
		log:      log.With("component", "mqtt"),
		updates:  make(chan service.Update, updateQueue),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start connects to the broker and follows every device. With connect retry
// enabled the first connection may complete later; subscriptions and the
// retained state are (re)sent on every connect.
func (b *Bridge) Start() error {
	t := b.conn.Connect()
	if t.WaitTimeout(connectTimeout) && t.Error() != nil {
		return t.Error()
	}

	b.wg.Add(1)
	go b.run()

	b.mu.Lock()
	b.unsubscribe = b.services.Devices.Subscribe(b.onUpdate)
	b.mu.Unlock()
	return nil
}

// run publishes queued updates until Stop. Broker waits happen here, never on
// a coordinator's cycle.
func (b *Bridge) run() {
	defer b.wg.Done()
	for {
		select {
		case <-b.ctx.Done():
			return
		case u := <-b.updates:
			b.publishDevice(u.Device, u.Err)
		}
	}
}

// Stop marks every device offline and disconnects.
func (b *Bridge) Stop() {
	b.mu.Lock()
	if b.unsubscribe != nil {
		b.unsubscribe()
		b.unsubscribe = nil
	}
	b.mu.Unlock()
	b.cancel()
	b.wg.Wait()

	for _, name := range b.services.Devices.Names() {
		b.publish(b.availabilityTopic(name), availabilityOffline)
	}
	b.publish(b.bridgeAvailabilityTopic(), availabilityOffline)
	b.conn.Disconnect(disconnectQuiesce)
}

func (b *Bridge) onConnect() {
	b.log.Infow("mqtt_connected", "prefix", b.prefix)
	for _, topic := range b.commandTopics() {
		t := b.conn.Subscribe(topic, qosAtLeastOnce, b.onMessage)
		if t.WaitTimeout(publishTimeout) && t.Error() != nil {
			b.log.Errorw("mqtt_subscribe_failed", "topic", topic, "err", t.Error())
		}
	}
	b.publish(b.bridgeAvailabilityTopic(), availabilityOnline)
	for _, name := range b.services.Devices.Names() {
		b.publishDevice(name, nil)
	}
}

// onUpdate runs on the coordinator after every cycle. It never blocks: when
// the queue is full the update is dropped and the next cycle republishes.
func (b *Bridge) onUpdate(u service.Update) {
	select {
	case b.updates <- u:
	default:
		b.log.Warnw("mqtt_queue_full", "device", u.Device)
	}
}

func (b *Bridge) publishDevice(device string, cycleErr error) {
	if cycleErr != nil {
		b.publish(b.availabilityTopic(device), availabilityOffline)
		return
	}
	view, err := b.services.GetSnapshot(device)
	if errors.Is(err, service.ErrNoSnapshot) {
		return
	}
	if err != nil {
		b.log.Warnw("mqtt_state_unavailable", "device", device, "err", err)
		return
	}
	payload, err := json.Marshal(view)
	if err != nil {
		b.log.Errorw("mqtt_state_encode_failed", "device", device, "err", err)
		return
	}
	b.publish(b.stateTopic(device), payload)
	if view.Stale {
		b.publish(b.availabilityTopic(device), availabilityOffline)
		return
	}
	b.publish(b.availabilityTopic(device), availabilityOnline)
}

func (b *Bridge) publish(topic string, payload interface{}) {
	t := b.conn.Publish(topic, qosAtLeastOnce, true, payload)
	if !t.WaitTimeout(publishTimeout) {
		b.log.Warnw("mqtt_publish_timeout", "topic", topic)
		return
	}
	if err := t.Error(); err != nil {
		b.log.Warnw("mqtt_publish_failed", "topic", topic, "err", err)
	}
}

func (b *Bridge) onMessage(_ mqtt.Client, msg mqtt.Message) {
	cmd, err := parseCommand(b.prefix, msg.Topic(), msg.Payload())
	if err != nil {
		b.log.Warnw("mqtt_command_dropped", "topic", msg.Topic(), "payload", string(msg.Payload()), "err", err)
		return
	}

	ctx, cancel := context.WithTimeout(b.ctx, commandTimeout)
	defer cancel()
	if err := cmd.apply(ctx, b.services.Control); err != nil {
		b.log.Warnw("mqtt_command_failed", "device", cmd.device, "command", cmd.String(), "err", err)
		return
	}
	b.log.Infow("mqtt_command_applied", "device", cmd.device, "command", cmd.String())
}

func (b *Bridge) topic(parts ...string) string {
	return b.prefix + "/" + strings.Join(parts, "/")
}

func (b *Bridge) stateTopic(device string) string { return b.topic(device, "state") }

func (b *Bridge) availabilityTopic(device string) string { return b.topic(device, "availability") }

// bridgeAvailabilityTopic sits one level above every device topic, so no
// device name can collide with it.
func (b *Bridge) bridgeAvailabilityTopic() string { return b.topic("availability") }

func (b *Bridge) commandTopics() []string {
	return []string{
		b.topic("+", "system", "power", "set"),
		b.topic("+", "zone", "+", "setpoint", "set"),
		b.topic("+", "zone", "+", "power", "set"),
		b.topic("+", "hc", "+", "mode", "set"),
	}
}
