package bridge

import (
	"context"

	"tabshelf/internal/browser"
)

// Client adapts a bridge server to the browser.Client interface.
type Client struct {
	srv *Server
}

// Client returns a browser.Client backed by this server's command exchange.
func (s *Server) Client() *Client {
	return &Client{srv: s}
}

var _ browser.Client = (*Client)(nil)

func (c *Client) Tabs(ctx context.Context, q browser.Query) ([]browser.Tab, error) {
	var tabs []browser.Tab
	if err := c.srv.execute(ctx, OpTabsQuery, q, &tabs); err != nil {
		return nil, err
	}
	return tabs, nil
}

func (c *Client) Tab(ctx context.Context, id browser.TabID) (browser.Tab, error) {
	var tab browser.Tab
	if err := c.srv.execute(ctx, OpTabGet, tabParams{TabID: id}, &tab); err != nil {
		return browser.Tab{}, err
	}
	return tab, nil
}

func (c *Client) Window(ctx context.Context, id browser.WindowID) (browser.Window, error) {
	var window browser.Window
	if err := c.srv.execute(ctx, OpWindowGet, windowParams{WindowID: id}, &window); err != nil {
		return browser.Window{}, err
	}
	return window, nil
}

func (c *Client) Groups(ctx context.Context) ([]browser.TabGroup, error) {
	var groups []browser.TabGroup
	if err := c.srv.execute(ctx, OpGroupsList, nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (c *Client) Group(ctx context.Context, id browser.GroupID) (browser.TabGroup, error) {
	var group browser.TabGroup
	if err := c.srv.execute(ctx, OpGroupGet, groupParams{GroupID: id}, &group); err != nil {
		return browser.TabGroup{}, err
	}
	return group, nil
}

func (c *Client) GroupTabs(ctx context.Context, id browser.GroupID, tabs []browser.TabID) (browser.GroupID, error) {
	var result groupTabsResult
	params := groupTabsParams{GroupID: id, TabIDs: tabs}
	if err := c.srv.execute(ctx, OpTabsGroup, params, &result); err != nil {
		return browser.NoGroup, err
	}
	return result.GroupID, nil
}

func (c *Client) UngroupTabs(ctx context.Context, tabs []browser.TabID) error {
	return c.srv.execute(ctx, OpTabsUngroup, ungroupParams{TabIDs: tabs}, nil)
}

func (c *Client) UpdateGroup(ctx context.Context, id browser.GroupID, update browser.GroupUpdate) error {
	params := groupUpdateParams{GroupID: id, Title: update.Title, Collapsed: update.Collapsed}
	return c.srv.execute(ctx, OpGroupUpdate, params, nil)
}
