// Package vcenter provides a client for the vCenter automation REST API.
package vcenter

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"esxi-report/internal/config"
)

// sessionHeader carries the session token on authenticated requests.
const sessionHeader = "vmware-api-session-id"

// Client is a client for the vCenter automation REST API.
type Client struct {
	endpoint   string             // API endpoint
	username   string             // API user
	password   string             // API password
	timeout    time.Duration      // Request timeout
	retry      config.RetryConfig // Retry configuration
	httpClient *resty.Client      // HTTP client
	logger     zerolog.Logger     // Logger
	sessionID  string             // Session token, set by Login
}

// NewClient creates a new vCenter API client.
func NewClient(cfg *config.VCenterConfig, retryCfg *config.RetryConfig, logger zerolog.Logger) *Client {
	// Set default timeout if not specified
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	// Set default retry config if not specified
	retry := config.RetryConfig{
		MaxRetries: 3,
		BaseDelay:  1 * time.Second,
	}
	if retryCfg != nil {
		retry = *retryCfg
	}

	// Create resty client
	httpClient := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(retry.MaxRetries).
		SetRetryWaitTime(retry.BaseDelay).
		SetRetryMaxWaitTime(retry.BaseDelay * 8). // Max wait time for exponential backoff
		AddRetryCondition(retryCondition)

	if cfg.Insecure {
		httpClient.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}

	return &Client{
		endpoint:   cfg.Endpoint,
		username:   cfg.Username,
		password:   cfg.Password,
		timeout:    timeout,
		retry:      retry,
		httpClient: httpClient,
		logger:     logger.With().Str("component", "vcenter-client").Logger(),
	}
}

// retryCondition determines whether a request should be retried.
// Only retry on timeout, 5xx errors, or connection failures.
// Do not retry on 4xx errors.
func retryCondition(resp *resty.Response, err error) bool {
	// Retry on error (timeout, connection failure, etc.)
	if err != nil {
		return true
	}

	// Retry on 5xx server errors
	if resp != nil && resp.StatusCode() >= 500 {
		return true
	}

	// Do not retry on 4xx client errors
	return false
}

// Login creates an API session and stores the session token for
// subsequent requests.
func (c *Client) Login(ctx context.Context) error {
	c.logger.Debug().Str("endpoint", c.endpoint).Msg("creating vCenter session")

	var sessionID string
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBasicAuth(c.username, c.password).
		SetResult(&sessionID).
		Post("/api/session")

	if err != nil {
		c.logger.Error().Err(err).Msg("failed to create session")
		return fmt.Errorf("failed to create session: %w", err)
	}

	if resp.StatusCode() != http.StatusCreated && resp.StatusCode() != http.StatusOK {
		c.logger.Error().
			Int("status_code", resp.StatusCode()).
			Msg("vCenter rejected session creation")
		return fmt.Errorf("vCenter session creation returned status %d: %s",
			resp.StatusCode(), string(resp.Body()))
	}

	c.sessionID = sessionID
	c.httpClient.SetHeader(sessionHeader, sessionID)
	c.logger.Info().Msg("vCenter session established")
	return nil
}

// SessionActive checks whether the client holds a live session on the
// management endpoint. A missing or expired session is the run's fatal
// precondition.
func (c *Client) SessionActive(ctx context.Context) bool {
	if c.sessionID == "" {
		return false
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get("/api/session")
	if err != nil {
		c.logger.Warn().Err(err).Msg("session check failed")
		return false
	}

	return resp.StatusCode() == http.StatusOK
}

// get executes an authenticated GET and decodes the JSON response into out.
func (c *Client) get(ctx context.Context, path string, params map[string]string, out interface{}) error {
	req := c.httpClient.R().
		SetContext(ctx).
		SetResult(out)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}

	resp, err := req.Get(path)
	if err != nil {
		return fmt.Errorf("request %s failed: %w", path, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("vCenter API returned status %d for %s: %s",
			resp.StatusCode(), path, string(resp.Body()))
	}

	return nil
}

// ListHosts retrieves every host known to the connected endpoint,
// sorted by name.
func (c *Client) ListHosts(ctx context.Context) ([]HostSummary, error) {
	c.logger.Debug().Msg("listing all hosts")

	var hosts []HostSummary
	if err := c.get(ctx, "/api/vcenter/host", nil, &hosts); err != nil {
		return nil, err
	}

	sortHostsByName(hosts)
	c.logger.Info().Int("count", len(hosts)).Msg("listed hosts")
	return hosts, nil
}

// FindCluster looks up a cluster by exact name. Returns nil when the
// name matches nothing.
func (c *Client) FindCluster(ctx context.Context, name string) (*ClusterSummary, error) {
	var clusters []ClusterSummary
	if err := c.get(ctx, "/api/vcenter/cluster", map[string]string{"names": name}, &clusters); err != nil {
		return nil, err
	}
	if len(clusters) == 0 {
		return nil, nil
	}
	return &clusters[0], nil
}

// FindDatacenter looks up a datacenter by exact name. Returns nil when
// the name matches nothing.
func (c *Client) FindDatacenter(ctx context.Context, name string) (*DatacenterSummary, error) {
	var datacenters []DatacenterSummary
	if err := c.get(ctx, "/api/vcenter/datacenter", map[string]string{"names": name}, &datacenters); err != nil {
		return nil, err
	}
	if len(datacenters) == 0 {
		return nil, nil
	}
	return &datacenters[0], nil
}

// ListHostsByCluster retrieves the hosts of one cluster, sorted by name.
func (c *Client) ListHostsByCluster(ctx context.Context, clusterID string) ([]HostSummary, error) {
	c.logger.Debug().Str("cluster", clusterID).Msg("listing hosts by cluster")

	var hosts []HostSummary
	if err := c.get(ctx, "/api/vcenter/host", map[string]string{"clusters": clusterID}, &hosts); err != nil {
		return nil, err
	}

	sortHostsByName(hosts)
	return hosts, nil
}

// ListHostsByDatacenter retrieves the hosts of one datacenter, sorted by name.
func (c *Client) ListHostsByDatacenter(ctx context.Context, datacenterID string) ([]HostSummary, error) {
	c.logger.Debug().Str("datacenter", datacenterID).Msg("listing hosts by datacenter")

	var hosts []HostSummary
	if err := c.get(ctx, "/api/vcenter/host", map[string]string{"datacenters": datacenterID}, &hosts); err != nil {
		return nil, err
	}

	sortHostsByName(hosts)
	return hosts, nil
}

// GetHost retrieves a single host by name with its current connection
// state. Returns nil when the name is unknown to the endpoint.
func (c *Client) GetHost(ctx context.Context, name string) (*HostSummary, error) {
	c.logger.Debug().Str("host", name).Msg("fetching host")

	var hosts []HostSummary
	if err := c.get(ctx, "/api/vcenter/host", map[string]string{"names": name}, &hosts); err != nil {
		return nil, err
	}
	if len(hosts) == 0 {
		return nil, nil
	}
	return &hosts[0], nil
}

// GetHardware retrieves a host's hardware inventory.
func (c *Client) GetHardware(ctx context.Context, host string) (*HardwareInfo, error) {
	var info HardwareInfo
	if err := c.get(ctx, "/api/esx/hosts/"+host+"/hardware", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetPCIDevices retrieves a host's PCI device list.
func (c *Client) GetPCIDevices(ctx context.Context, host string) ([]PCIDevice, error) {
	var devices []PCIDevice
	if err := c.get(ctx, "/api/esx/hosts/"+host+"/pci-devices", nil, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// GetNICs retrieves a host's physical network adapters.
func (c *Client) GetNICs(ctx context.Context, host string) ([]PhysicalNIC, error) {
	var nics []PhysicalNIC
	if err := c.get(ctx, "/api/esx/hosts/"+host+"/nics", nil, &nics); err != nil {
		return nil, err
	}
	return nics, nil
}

// GetNICFirmware retrieves the NIC firmware version for a host.
func (c *Client) GetNICFirmware(ctx context.Context, host string) (*NICFirmwareInfo, error) {
	var info NICFirmwareInfo
	if err := c.get(ctx, "/api/esx/hosts/"+host+"/nics/firmware", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetVersion retrieves a host's product and build information.
func (c *Client) GetVersion(ctx context.Context, host string) (*VersionInfo, error) {
	var info VersionInfo
	if err := c.get(ctx, "/api/esx/hosts/"+host+"/version", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetBootDevice retrieves a host's boot-device metadata.
func (c *Client) GetBootDevice(ctx context.Context, host string) (*BootDeviceInfo, error) {
	var info BootDeviceInfo
	if err := c.get(ctx, "/api/esx/hosts/"+host+"/boot-device", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetBootTime retrieves a host's last boot timestamp.
func (c *Client) GetBootTime(ctx context.Context, host string) (*BootTimeInfo, error) {
	var info BootTimeInfo
	if err := c.get(ctx, "/api/esx/hosts/"+host+"/boot-time", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetImageProfile retrieves a host's image profile descriptor.
func (c *Client) GetImageProfile(ctx context.Context, host string) (*ImageProfileInfo, error) {
	var info ImageProfileInfo
	if err := c.get(ctx, "/api/esx/hosts/"+host+"/image-profile", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetVIBs retrieves a host's installed package manifest.
func (c *Client) GetVIBs(ctx context.Context, host string) ([]VIB, error) {
	var vibs []VIB
	if err := c.get(ctx, "/api/esx/hosts/"+host+"/vibs", nil, &vibs); err != nil {
		return nil, err
	}
	return vibs, nil
}

// GetNTP retrieves a host's configured NTP servers.
func (c *Client) GetNTP(ctx context.Context, host string) (*NTPInfo, error) {
	var info NTPInfo
	if err := c.get(ctx, "/api/esx/hosts/"+host+"/ntp", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetSyslog retrieves a host's remote syslog target.
func (c *Client) GetSyslog(ctx context.Context, host string) (*SyslogInfo, error) {
	var info SyslogInfo
	if err := c.get(ctx, "/api/esx/hosts/"+host+"/syslog", nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetVMkernelNICs retrieves a host's VMkernel network adapters.
func (c *Client) GetVMkernelNICs(ctx context.Context, host string) ([]VMkernelNIC, error) {
	var nics []VMkernelNIC
	if err := c.get(ctx, "/api/esx/hosts/"+host+"/vmkernel-nics", nil, &nics); err != nil {
		return nil, err
	}
	return nics, nil
}

// GetStandardSwitches retrieves a host's standard virtual switches.
func (c *Client) GetStandardSwitches(ctx context.Context, host string) ([]VirtualSwitch, error) {
	var switches []VirtualSwitch
	if err := c.get(ctx, "/api/esx/hosts/"+host+"/vswitches", nil, &switches); err != nil {
		return nil, err
	}
	return switches, nil
}

// GetDistributedSwitches retrieves the distributed virtual switches a
// host participates in.
func (c *Client) GetDistributedSwitches(ctx context.Context, host string) ([]VirtualSwitch, error) {
	var switches []VirtualSwitch
	if err := c.get(ctx, "/api/esx/hosts/"+host+"/dvswitches", nil, &switches); err != nil {
		return nil, err
	}
	return switches, nil
}

// GetCDPNeighbor retrieves the CDP neighbor identity of a host's uplink.
func (c *Client) GetCDPNeighbor(ctx context.Context, host string) (*NeighborInfo, error) {
	var info NeighborInfo
	if err := c.get(ctx, "/api/esx/hosts/"+host+"/discovery/cdp", nil, &info); err != nil {
		return nil, err
	}
	info.Protocol = "cdp"
	return &info, nil
}

// GetLLDPNeighbor retrieves the LLDP neighbor identity of a host's uplink.
func (c *Client) GetLLDPNeighbor(ctx context.Context, host string) (*NeighborInfo, error) {
	var info NeighborInfo
	if err := c.get(ctx, "/api/esx/hosts/"+host+"/discovery/lldp", nil, &info); err != nil {
		return nil, err
	}
	info.Protocol = "lldp"
	return &info, nil
}

// HTTPClient exposes the authenticated resty client so sibling API
// surfaces on the same endpoint (update manager) can reuse the session.
func (c *Client) HTTPClient() *resty.Client {
	return c.httpClient
}
