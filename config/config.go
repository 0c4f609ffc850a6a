package config

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/hdt3213/nosqlcore/command"
	"github.com/hdt3213/nosqlcore/lib/logger"
)

// DefaultConfPath is read by Load when no path is given and the file exists
const DefaultConfPath = "nosql.conf"

// Properties are the connection settings.
// File keys come from the cfg tag, environment overrides from the env tag.
type Properties struct {
	Backend     string        `cfg:"backend" env:"NOSQL_BACKEND"`
	Host        string        `cfg:"host" env:"NOSQL_HOST"`
	Port        int           `cfg:"port" env:"NOSQL_PORT"`
	Password    string        `cfg:"password" env:"NOSQL_PASSWORD"`
	DB          int           `cfg:"db" env:"NOSQL_DB"`
	DialTimeout time.Duration `cfg:"dialTimeout" env:"NOSQL_DIAL_TIMEOUT"`
	IOTimeout   time.Duration `cfg:"ioTimeout" env:"NOSQL_IO_TIMEOUT"`
	LogLevel    string        `cfg:"logLevel" env:"NOSQL_LOG_LEVEL"`
	LogPath     string        `cfg:"logPath" env:"NOSQL_LOG_PATH"`
}

// Default returns the properties of a local redis
func Default() *Properties {
	return &Properties{
		Backend:     command.Redis.String(),
		Host:        "127.0.0.1",
		Port:        6379,
		DialTimeout: 5 * time.Second,
		IOTimeout:   3 * time.Second,
		LogLevel:    "info",
	}
}

// Addr returns host:port
func (p *Properties) Addr() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

// BackendType parses the Backend name
func (p *Properties) BackendType() (command.Backend, error) {
	return command.ParseBackend(p.Backend)
}

// Parse reads a redis.conf style source over the defaults
func Parse(src io.Reader) (*Properties, error) {
	config := Default()

	// read config file
	rawMap := make(map[string]string)
	scanner := bufio.NewScanner(src)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		pivot := strings.IndexAny(line, " \t")
		if pivot > 0 && pivot < len(line)-1 { // separator found
			key := line[0:pivot]
			value := strings.TrimSpace(line[pivot+1:])
			rawMap[strings.ToLower(key)] = value
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// parse format
	t := reflect.TypeOf(config)
	v := reflect.ValueOf(config)
	n := t.Elem().NumField()
	for i := 0; i < n; i++ {
		field := t.Elem().Field(i)
		fieldVal := v.Elem().Field(i)
		key, ok := field.Tag.Lookup("cfg")
		if !ok {
			key = field.Name
		}
		value, ok := rawMap[strings.ToLower(key)]
		if !ok {
			continue
		}
		if err := setField(fieldVal, value); err != nil {
			return nil, fmt.Errorf("config %s: %w", key, err)
		}
	}
	return config, nil
}

func setField(fieldVal reflect.Value, value string) error {
	if fieldVal.Type() == reflect.TypeOf(time.Duration(0)) {
		d, err := parseDuration(value)
		if err != nil {
			return err
		}
		fieldVal.SetInt(int64(d))
		return nil
	}
	switch fieldVal.Kind() {
	case reflect.String:
		fieldVal.SetString(value)
	case reflect.Int:
		intValue, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		fieldVal.SetInt(intValue)
	case reflect.Bool:
		fieldVal.SetBool(toBool(value))
	case reflect.Slice:
		if fieldVal.Type().Elem().Kind() == reflect.String {
			slice := strings.Split(value, ",")
			fieldVal.Set(reflect.ValueOf(slice))
		}
	}
	return nil
}

// parseDuration accepts Go durations and bare milliseconds
func parseDuration(s string) (time.Duration, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	return time.ParseDuration(s)
}

// ApplyEnv overrides p with the NOSQL_* environment variables that are set
func ApplyEnv(p *Properties) error {
	if err := env.Parse(p); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads configFilename, or DefaultConfPath if it is empty and exists, then applies the environment
func Load(configFilename string) (*Properties, error) {
	if configFilename == "" && defaultConfigFileExists() {
		configFilename = DefaultConfPath
	}
	props := Default()
	if configFilename != "" {
		file, err := os.Open(configFilename)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		props, err = Parse(file)
		if err != nil {
			return nil, err
		}
		logger.Info("load config from " + configFilename)
	}
	if err := ApplyEnv(props); err != nil {
		return nil, err
	}
	if _, err := props.BackendType(); err != nil {
		return nil, err
	}
	return props, nil
}

func defaultConfigFileExists() bool {
	info, err := os.Stat(DefaultConfPath)
	return err == nil && !info.IsDir()
}

func toBool(s string) bool {
	ls := strings.ToLower(s)
	switch ls {
	case "true", "yes", "t", "y":
		return true
	default:
		return false
	}
}
