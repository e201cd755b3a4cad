package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Start requests the daemon to start processing.
func (c *Client) Start() (*StartResponse, error) {
	var resp StartResponse
	if err := c.client.Call("Tabshelf.Start", StartRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop requests the daemon to stop processing.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("Tabshelf.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Tabshelf.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GroupNow triggers an immediate grouping pass.
func (c *Client) GroupNow(minutes int) (*GroupNowResponse, error) {
	var resp GroupNowResponse
	if err := c.client.Call("Tabshelf.GroupNow", GroupNowRequest{Minutes: minutes}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StartCountdown arms the grouping countdown.
func (c *Client) StartCountdown(minutes int) (*StartCountdownResponse, error) {
	var resp StartCountdownResponse
	if err := c.client.Call("Tabshelf.StartCountdown", StartCountdownRequest{Minutes: minutes}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// StopCountdown disarms the grouping countdown.
func (c *Client) StopCountdown() (*StopCountdownResponse, error) {
	var resp StopCountdownResponse
	if err := c.client.Call("Tabshelf.StopCountdown", StopCountdownRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Reset discards transient engine state and rebuilds from the browser.
func (c *Client) Reset() (*ResetResponse, error) {
	var resp ResetResponse
	if err := c.client.Call("Tabshelf.Reset", ResetRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Events retrieves recently published engine events.
func (c *Client) Events() (*EventsResponse, error) {
	var resp EventsResponse
	if err := c.client.Call("Tabshelf.Events", EventsRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Tabs retrieves the tab inspection listing.
func (c *Client) Tabs() (*TabsResponse, error) {
	var resp TabsResponse
	if err := c.client.Call("Tabshelf.Tabs", TabsRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Configure applies runtime setting overrides.
func (c *Client) Configure(req ConfigureRequest) (*ConfigureResponse, error) {
	var resp ConfigureResponse
	if err := c.client.Call("Tabshelf.Configure", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestNotification triggers a notification test via the daemon.
func (c *Client) TestNotification() (*TestNotificationResponse, error) {
	var resp TestNotificationResponse
	if err := c.client.Call("Tabshelf.TestNotification", TestNotificationRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
