package ssdp

import (
	"context"
	"errors"
	"testing"
	"time"

	gossdp "github.com/koron/go-ssdp"

	"github.com/samg-hub/thermal-printer/config"
	"github.com/samg-hub/thermal-printer/pkg/types"
)

func testConfig() config.SSDPConfig {
	return config.SSDPConfig{SearchWait: config.Duration(time.Second)}
}

func fixedSearch(services []gossdp.Service, err error) SearchFunc {
	return func(string, int, string) ([]gossdp.Service, error) {
		return services, err
	}
}

func TestSearchFiltersPrinters(t *testing.T) {
	services := []gossdp.Service{
		{
			Type:     "urn:schemas-upnp-org:device:Printer:1",
			USN:      "uuid:1::urn:schemas-upnp-org:device:Printer:1",
			Location: "http://192.168.1.40:80/desc.xml",
			Server:   "EPSON TM-T88V",
		},
		{
			Type:     "urn:schemas-upnp-org:device:InternetGatewayDevice:1",
			USN:      "uuid:2::urn:schemas-upnp-org:device:InternetGatewayDevice:1",
			Location: "http://192.168.1.1:5000/rootDesc.xml",
		},
		{
			Type:     "urn:schemas-upnp-org:service:PrintBasic:1",
			USN:      "uuid:3::urn:schemas-upnp-org:service:PrintBasic:1",
			Location: "http://192.168.1.41:631/printer.xml",
		},
	}

	s := New(testConfig(), WithSearchFunc(fixedSearch(services, nil)))
	printers, err := s.Search(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(printers) != 2 {
		t.Fatalf("printers = %d, want 2: %+v", len(printers), printers)
	}
	want0 := types.NewEndpoint("192.168.1.40", types.DefaultPrinterPort)
	if printers[0].Endpoint != want0 {
		t.Errorf("endpoint = %v, want %v", printers[0].Endpoint, want0)
	}
	if printers[0].Name != "EPSON TM-T88V" {
		t.Errorf("name = %q, want server header", printers[0].Name)
	}
	if printers[0].Source != types.SourceSSDP {
		t.Errorf("source = %q, want %q", printers[0].Source, types.SourceSSDP)
	}
}

func TestSearchDeduplicatesEndpoints(t *testing.T) {
	services := []gossdp.Service{
		{
			Type:     "urn:schemas-upnp-org:device:Printer:1",
			Location: "http://10.0.0.7:80/desc.xml",
		},
		{
			Type:     "urn:schemas-upnp-org:service:PrintBasic:1",
			Location: "http://10.0.0.7:631/svc.xml",
		},
	}

	s := New(testConfig(), WithSearchFunc(fixedSearch(services, nil)))
	printers, err := s.Search(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(printers) != 1 {
		t.Errorf("printers = %d, want 1 after dedup", len(printers))
	}
}

func TestSearchIgnoresBadLocations(t *testing.T) {
	services := []gossdp.Service{
		{Type: "urn:schemas-upnp-org:device:Printer:1", Location: "not a url"},
		{Type: "urn:schemas-upnp-org:device:Printer:1", Location: "http://printer.local/desc.xml"},
	}

	s := New(testConfig(), WithSearchFunc(fixedSearch(services, nil)))
	printers, err := s.Search(context.Background(), time.Second)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(printers) != 0 {
		t.Errorf("printers = %d, want 0 for unusable locations", len(printers))
	}
}

func TestSearchPropagatesError(t *testing.T) {
	searchErr := errors.New("multicast failed")
	s := New(testConfig(), WithSearchFunc(fixedSearch(nil, searchErr)))
	if _, err := s.Search(context.Background(), time.Second); !errors.Is(err, searchErr) {
		t.Errorf("err = %v, want %v", err, searchErr)
	}
}

func TestSearchCancel(t *testing.T) {
	blocked := make(chan struct{})
	search := func(string, int, string) ([]gossdp.Service, error) {
		<-blocked
		return nil, nil
	}
	defer close(blocked)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New(testConfig(), WithSearchFunc(search))
	if _, err := s.Search(ctx, time.Second); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
