package publish

import (
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/jamebal/hacs-chinese-holidays/internal/holiday"
	"go.uber.org/zap"
)

// MQTTOptions configures the MQTT sink
type MQTTOptions struct {
	Broker            string // e.g. tcp://127.0.0.1:1883
	ClientID          string
	Username          string
	Password          string
	StateTopic        string
	AttributesTopic   string
	AvailabilityTopic string
	QoS               byte
	Retain            bool
}

// MQTTSink publishes classification results to an MQTT broker. The state
// goes to the state topic and the attribute map, JSON-encoded, to the
// attributes topic, so Home Assistant can consume both through a single
// MQTT sensor.
type MQTTSink struct {
	client mqtt.Client
	opts   MQTTOptions
	logger *zap.Logger
}

// NewMQTTSink connects to the broker and returns a ready sink
func NewMQTTSink(opts MQTTOptions, logger *zap.Logger) (*MQTTSink, error) {
	clientOpts := mqtt.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetAutoReconnect(true)

	if opts.Username != "" {
		clientOpts.SetUsername(opts.Username)
		clientOpts.SetPassword(opts.Password)
	}

	if opts.AvailabilityTopic != "" {
		clientOpts.SetWill(opts.AvailabilityTopic, "offline", opts.QoS, true)
	}

	client := mqtt.NewClient(clientOpts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	logger.Info("Connected to MQTT broker",
		zap.String("broker", opts.Broker),
		zap.String("client_id", opts.ClientID))

	sink := &MQTTSink{
		client: client,
		opts:   opts,
		logger: logger,
	}

	if opts.AvailabilityTopic != "" {
		sink.publishTopic(opts.AvailabilityTopic, "online", true)
	}

	return sink, nil
}

// Publish sends the state and attributes to their topics
func (s *MQTTSink) Publish(result holiday.Result) error {
	if err := s.publishTopic(s.opts.StateTopic, result.State, s.opts.Retain); err != nil {
		return fmt.Errorf("failed to publish state: %w", err)
	}

	if s.opts.AttributesTopic != "" {
		payload, err := json.Marshal(result.Attributes)
		if err != nil {
			return fmt.Errorf("failed to encode attributes: %w", err)
		}
		if err := s.publishTopic(s.opts.AttributesTopic, string(payload), s.opts.Retain); err != nil {
			return fmt.Errorf("failed to publish attributes: %w", err)
		}
	}

	s.logger.Info("Result published to MQTT",
		zap.String("topic", s.opts.StateTopic),
		zap.String("state", result.State))

	return nil
}

// Close marks the sensor unavailable and disconnects
func (s *MQTTSink) Close() {
	if s.opts.AvailabilityTopic != "" {
		s.publishTopic(s.opts.AvailabilityTopic, "offline", true)
	}
	s.client.Disconnect(250)
}

func (s *MQTTSink) publishTopic(topic, payload string, retain bool) error {
	token := s.client.Publish(topic, s.opts.QoS, retain, payload)
	token.Wait()
	return token.Error()
}
