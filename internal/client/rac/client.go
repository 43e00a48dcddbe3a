// Package rac provides an out-of-band probe for remote access
// controllers (iDRAC, iLO, ...) over the WS-Management endpoint that
// ESXi hosts expose on their CIM interface.
package rac

import (
	"context"
	"crypto/tls"
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"esxi-report/internal/config"
)

// identityEnvelope is the WS-Management Get request for the management
// controller's IP endpoint and firmware identity.
const identityEnvelope = `<?xml version="1.0" encoding="UTF-8"?>
<s:Envelope xmlns:s="http://www.w3.org/2003/05/soap-envelope"
            xmlns:wsa="http://schemas.xmlsoap.org/ws/2004/08/addressing"
            xmlns:wsman="http://schemas.dmtf.org/wbem/wsman/1/wsman.xsd">
  <s:Header>
    <wsa:Action s:mustUnderstand="true">http://schemas.xmlsoap.org/ws/2004/09/transfer/Get</wsa:Action>
    <wsman:ResourceURI s:mustUnderstand="true">http://schemas.dmtf.org/wbem/wscim/1/cim-schema/2/OMC_IPMIIPProtocolEndpoint</wsman:ResourceURI>
  </s:Header>
  <s:Body/>
</s:Envelope>`

// RACInfo is the probed controller identity.
type RACInfo struct {
	Address  string // controller IPv4 address
	Firmware string // controller firmware version
}

// envelope is the subset of the WS-Management response the probe reads.
type envelope struct {
	XMLName xml.Name `xml:"Envelope"`
	Body    struct {
		Endpoint struct {
			IPv4Address   string `xml:"IPv4Address"`
			VersionString string `xml:"VersionString"`
		} `xml:"OMC_IPMIIPProtocolEndpoint"`
	} `xml:"Body"`
}

// Client probes remote access controllers through the hosts' WS-Man
// endpoints. One client serves all hosts of a run.
type Client struct {
	port       int
	timeout    time.Duration
	username   string
	password   string
	httpClient *resty.Client
	logger     zerolog.Logger
}

// NewClient creates a new RAC probe client.
func NewClient(cfg *config.RACConfig, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	port := cfg.Port
	if port == 0 {
		port = 443
	}

	// RAC endpoints almost always present self-signed certificates.
	httpClient := resty.New().
		SetTimeout(timeout).
		SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}).
		SetHeader("Content-Type", "application/soap+xml;charset=UTF-8")

	return &Client{
		port:       port,
		timeout:    timeout,
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: httpClient,
		logger:     logger.With().Str("component", "rac-client").Logger(),
	}
}

// Probe queries the management controller behind the given host.
// No retry: a controller that does not answer once will not answer
// three times within one report run.
func (c *Client) Probe(ctx context.Context, host string) (*RACInfo, error) {
	url := fmt.Sprintf("https://%s:%d/wsman", host, c.port)
	c.logger.Debug().Str("host", host).Str("url", url).Msg("probing RAC over WS-Man")

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBasicAuth(c.username, c.password).
		SetBody(identityEnvelope).
		Post(url)

	if err != nil {
		return nil, fmt.Errorf("WS-Man probe failed for %s: %w", host, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("WS-Man endpoint on %s returned status %d", host, resp.StatusCode())
	}

	var env envelope
	if err := xml.Unmarshal(resp.Body(), &env); err != nil {
		return nil, fmt.Errorf("failed to parse WS-Man response from %s: %w", host, err)
	}

	info := &RACInfo{
		Address:  env.Body.Endpoint.IPv4Address,
		Firmware: env.Body.Endpoint.VersionString,
	}
	c.logger.Debug().
		Str("host", host).
		Str("rac_address", info.Address).
		Str("rac_firmware", info.Firmware).
		Msg("RAC probe completed")
	return info, nil
}
