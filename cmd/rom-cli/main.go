// Command rom-cli is an interactive client for a single ROM device.
//
// It provisions a client certificate through the account service,
// opens the mutually-authenticated device socket, starts a session,
// and offers an interactive command loop.
//
// Usage:
//
//	rom-cli [flags]
//
// Flags:
//
//	-config string    Credentials file path (YAML, default rom-cli.yaml)
//	-address string   Connect directly to this address, skipping provisioning
//	-log-level string Log level: debug, info, warn, error (default "info")
//	-capture string   Write a CBOR protocol capture to this file
//
// Examples:
//
//	# Provision and connect with credentials from rom-cli.yaml
//	rom-cli -config rom-cli.yaml
//
//	# Connect to a local simulator without TLS
//	rom-cli -config rom-cli.yaml -address 127.0.0.1
//
//	# Record a protocol capture for later inspection with rom-log
//	rom-cli -config rom-cli.yaml -capture session.romcap
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/rom-protocol/rom-go/cmd/rom-cli/interactive"
	"github.com/rom-protocol/rom-go/pkg/cert"
	"github.com/rom-protocol/rom-go/pkg/log"
	"github.com/rom-protocol/rom-go/pkg/provision"
	"github.com/rom-protocol/rom-go/pkg/requester"
	"github.com/rom-protocol/rom-go/pkg/transport"
)

// credentialsFile is the YAML layout of the -config file.
type credentialsFile struct {
	ClientID     string `yaml:"clientId"`
	ClientSecret string `yaml:"clientSecret"`
	SerialName   string `yaml:"serialName"`
	Endpoint     string `yaml:"endpoint"`
	Email        string `yaml:"email"`
	Password     string `yaml:"password"`
	AppID        string `yaml:"appId"`
}

var (
	configPath string
	address    string
	logLevel   string
	capture    string
)

func init() {
	flag.StringVar(&configPath, "config", "rom-cli.yaml", "Credentials file path")
	flag.StringVar(&address, "address", "", "Connect directly to this address, skipping provisioning")
	flag.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&capture, "capture", "", "Write a CBOR protocol capture to this file")
}

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "rom-cli: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	creds, err := loadCredentials(configPath)
	if err != nil {
		return err
	}

	logger, closeLogger, err := buildLogger()
	if err != nil {
		return err
	}
	defer closeLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	var material *cert.Material
	if address == "" {
		flow := provision.NewFlow(provision.Config{Logger: logger})
		flow.Status.On(func(msg provision.StatusMessage) {
			fmt.Printf("[%s] %s\n", msg.Subsystem, msg.Message)
		})

		material, err = flow.Run(ctx, provision.Credential{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			DeviceSerial: creds.SerialName,
			Endpoint:     creds.Endpoint,
			Email:        creds.Email,
			Password:     creds.Password,
		})
		if err != nil {
			return fmt.Errorf("provisioning: %w", err)
		}
		fmt.Printf("Provisioned certificate for %s at %s\n", creds.SerialName, material.DeviceAddress)
	}

	manager := transport.NewManager(logger)
	defer manager.Close()

	req := requester.New(manager, creds.SerialName, requester.Config{
		AppID:  creds.AppID,
		Logger: logger,
	})
	req.Disconnected.On(func(ev requester.DisconnectedError) {
		fmt.Printf("Disconnected: %v\n", &ev)
		cancel()
	})

	opts := transport.Options{Material: material, Address: address}
	if err := req.Connect(ctx, opts); err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	sessionID, version := req.Session()
	fmt.Printf("Session started (id: %s, version: %s)\n", sessionID, version)

	ic, err := interactive.New(req)
	if err != nil {
		return err
	}
	ic.Run(ctx, cancel)
	return nil
}

// loadCredentials reads and validates the YAML credentials file.
func loadCredentials(path string) (*credentialsFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	var creds credentialsFile
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}

	if creds.SerialName == "" {
		return nil, fmt.Errorf("credentials file %s: serialName is required", path)
	}
	if address == "" && (creds.Endpoint == "" || creds.Email == "" || creds.Password == "") {
		return nil, fmt.Errorf("credentials file %s: endpoint, email and password are required for provisioning", path)
	}
	return &creds, nil
}

// buildLogger assembles the protocol logger from the flags: slog to
// stderr, plus an optional CBOR capture file.
func buildLogger() (log.Logger, func(), error) {
	level := slog.LevelInfo
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	slogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	base := log.Logger(log.NewSlogAdapter(slogger))
	if capture == "" {
		return base, func() {}, nil
	}

	file, err := log.NewFileLogger(capture)
	if err != nil {
		return nil, nil, fmt.Errorf("open capture file: %w", err)
	}
	return log.NewMultiLogger(base, file), func() { file.Close() }, nil
}
