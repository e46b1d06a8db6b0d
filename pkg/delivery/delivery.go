package delivery

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	// Supported deliverer types.
	TypeSMTP   = "smtp"
	TypeHTTP   = "http"
	TypeSQS    = "sqs"
	TypeSNS    = "sns"
	TypePubSub = "pubsub"

	httpDefaultMethod         = "POST"
	httpDefaultTimeoutSeconds = 5

	smtpDefaultHost = "smtp.gmail.com"
	smtpDefaultPort = 587
)

// configFile represents the structure of the deliverers configuration file.
type configFile struct {
	Deliverers []DelivererConfig `json:"deliverers" yaml:"deliverers"`
}

// DelivererConfig represents a single deliverer entry declared in config files.
type DelivererConfig struct {
	ID      string                 `json:"id" yaml:"id"`
	Type    string                 `json:"type" yaml:"type"`
	Enabled *bool                  `json:"enabled" yaml:"enabled"`
	SMTP    *SMTPDelivererConfig   `json:"smtp" yaml:"smtp"`
	HTTP    *HTTPDelivererConfig   `json:"http" yaml:"http"`
	SQS     *SQSDelivererConfig    `json:"sqs" yaml:"sqs"`
	SNS     *SNSDelivererConfig    `json:"sns" yaml:"sns"`
	PubSub  *PubSubDelivererConfig `json:"pubsub" yaml:"pubsub"`
}

// SMTPDelivererConfig holds mail relay settings. The account credentials are
// never read from this file; they arrive through BuildEnv at build time.
type SMTPDelivererConfig struct {
	Host      string `json:"host" yaml:"host"`
	Port      int    `json:"port" yaml:"port"`
	Recipient string `json:"recipient" yaml:"recipient"`
}

// HTTPDelivererConfig holds generic webhook sink settings.
type HTTPDelivererConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// SQSDelivererConfig holds AWS SQS specific settings.
type SQSDelivererConfig struct {
	QueueURL string `json:"uri" yaml:"uri"`
	Region   string `json:"region" yaml:"region"`
}

// SNSDelivererConfig holds AWS SNS specific settings.
type SNSDelivererConfig struct {
	TopicARN string `json:"topic_arn" yaml:"topic_arn"`
	Region   string `json:"region" yaml:"region"`
}

// PubSubDelivererConfig holds GCP Pub/Sub specific settings.
type PubSubDelivererConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
}

// ConfigRegistry materializes deliverer definitions loaded from config files.
type ConfigRegistry struct {
	mu         sync.RWMutex
	deliverers []DelivererConfig
	idx        map[string]DelivererConfig
}

// LoadRegistry loads the deliverer registry from a YAML/JSON file.
func LoadRegistry(path string) (*ConfigRegistry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("deliverers file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open deliverers file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read deliverers file: %w", err)
	}

	fileReg, err := parseDelivererRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(fileReg.Deliverers) == 0 {
		return nil, errors.New("deliverers file contains no deliverers entries")
	}

	reg := &ConfigRegistry{
		deliverers: make([]DelivererConfig, len(fileReg.Deliverers)),
		idx:        make(map[string]DelivererConfig, len(fileReg.Deliverers)),
	}

	for i := range fileReg.Deliverers {
		cfg := sanitizeDelivererConfig(fileReg.Deliverers[i])
		if err := validateDelivererConfig(cfg); err != nil {
			return nil, fmt.Errorf("deliverers[%d]: %w", i, err)
		}
		if _, exists := reg.idx[cfg.ID]; exists {
			return nil, fmt.Errorf("duplicate deliverer id %q", cfg.ID)
		}
		reg.deliverers[i] = cfg
		reg.idx[cfg.ID] = cfg
	}

	return reg, nil
}

// parseDelivererRegistry attempts to decode the deliverers file content.
func parseDelivererRegistry(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		ext string
		fn  func([]byte, any) error
	}{
		{ext: ".yaml", fn: yaml.Unmarshal},
		{ext: ".yml", fn: yaml.Unmarshal},
		{ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var reg configFile
		if err := d.fn(data, &reg); err == nil {
			return reg, nil
		}
	}

	return configFile{}, errors.New("deliverers file format not recognized (expected YAML or JSON)")
}

// sanitizeDelivererConfig trims and normalizes the deliverer config fields.
func sanitizeDelivererConfig(cfg DelivererConfig) DelivererConfig {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))

	if cfg.Enabled == nil {
		def := true
		cfg.Enabled = &def
	}
	if cfg.SMTP != nil {
		c := *cfg.SMTP
		c.Host = strings.TrimSpace(c.Host)
		c.Recipient = strings.TrimSpace(c.Recipient)
		cfg.SMTP = &c
	}
	if cfg.HTTP != nil {
		c := *cfg.HTTP
		c.URL = strings.TrimSpace(c.URL)
		c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
		if c.Method == "" {
			c.Method = httpDefaultMethod
		}
		c.Headers = sanitizeHeaders(c.Headers)
		if c.TimeoutSeconds <= 0 {
			c.TimeoutSeconds = httpDefaultTimeoutSeconds
		}
		cfg.HTTP = &c
	}
	if cfg.SQS != nil {
		c := *cfg.SQS
		c.QueueURL = strings.TrimSpace(c.QueueURL)
		c.Region = strings.TrimSpace(c.Region)
		cfg.SQS = &c
	}
	if cfg.SNS != nil {
		c := *cfg.SNS
		c.TopicARN = strings.TrimSpace(c.TopicARN)
		c.Region = strings.TrimSpace(c.Region)
		cfg.SNS = &c
	}
	if cfg.PubSub != nil {
		c := *cfg.PubSub
		c.ProjectID = strings.TrimSpace(c.ProjectID)
		c.Topic = strings.TrimSpace(c.Topic)
		c.CredentialsFile = strings.TrimSpace(c.CredentialsFile)
		cfg.PubSub = &c
	}

	return cfg
}

// sanitizeHeaders trims and removes empty headers.
func sanitizeHeaders(headers map[string]string) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		key := strings.TrimSpace(k)
		val := strings.TrimSpace(v)
		if key == "" || val == "" {
			continue
		}
		out[key] = val
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// validateDelivererConfig checks that required fields are present. The smtp
// block is optional because host, port, and recipient all have defaults.
func validateDelivererConfig(cfg DelivererConfig) error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}
	if cfg.Type == "" {
		return fmt.Errorf("type is required for deliverer %q", cfg.ID)
	}
	if cfg.Type == TypeHTTP {
		if cfg.HTTP == nil {
			return fmt.Errorf("http config required for deliverer %q", cfg.ID)
		}
		if cfg.HTTP.URL == "" {
			return fmt.Errorf("http.url is required for deliverer %q", cfg.ID)
		}
	}
	if cfg.Type == TypeSQS {
		if cfg.SQS == nil {
			return fmt.Errorf("sqs config required for deliverer %q", cfg.ID)
		}
		if cfg.SQS.QueueURL == "" {
			return fmt.Errorf("sqs.uri is required for deliverer %q", cfg.ID)
		}
		if cfg.SQS.Region == "" {
			return fmt.Errorf("sqs.region is required for deliverer %q", cfg.ID)
		}
	}
	if cfg.Type == TypeSNS {
		if cfg.SNS == nil {
			return fmt.Errorf("sns config required for deliverer %q", cfg.ID)
		}
		if cfg.SNS.TopicARN == "" {
			return fmt.Errorf("sns.topic_arn is required for deliverer %q", cfg.ID)
		}
		if cfg.SNS.Region == "" {
			return fmt.Errorf("sns.region is required for deliverer %q", cfg.ID)
		}
	}
	if cfg.Type == TypePubSub {
		if cfg.PubSub == nil {
			return fmt.Errorf("pubsub config required for deliverer %q", cfg.ID)
		}
		if cfg.PubSub.ProjectID == "" {
			return fmt.Errorf("pubsub.project_id is required for deliverer %q", cfg.ID)
		}
		if cfg.PubSub.Topic == "" {
			return fmt.Errorf("pubsub.topic is required for deliverer %q", cfg.ID)
		}
	}
	return nil
}

// ByID returns the deliverer config by id.
func (r *ConfigRegistry) ByID(id string) (DelivererConfig, bool) {
	if r == nil {
		return DelivererConfig{}, false
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return DelivererConfig{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.idx[id]
	return cfg, ok
}

// All returns all configured deliverers.
func (r *ConfigRegistry) All() []DelivererConfig {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]DelivererConfig, len(r.deliverers))
	copy(out, r.deliverers)
	return out
}

// Enabled returns deliverers that are enabled.
func (r *ConfigRegistry) Enabled() []DelivererConfig {
	if r == nil {
		return nil
	}

	all := r.All()
	if len(all) == 0 {
		return nil
	}

	out := make([]DelivererConfig, 0, len(all))
	for _, cfg := range all {
		if cfg.EnabledValue() {
			out = append(out, cfg)
		}
	}
	return out
}

// EnabledValue returns enabled flag defaulting to true.
func (cfg DelivererConfig) EnabledValue() bool {
	if cfg.Enabled == nil {
		return true
	}
	return *cfg.Enabled
}
