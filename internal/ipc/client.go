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

// Play resumes playback, or starts the identified episode.
func (c *Client) Play(episodeID string) (*PlayResponse, error) {
	var resp PlayResponse
	if err := c.client.Call("Bridge.Play", PlayRequest{EpisodeID: episodeID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Pause pauses playback.
func (c *Client) Pause() (*PauseResponse, error) {
	var resp PauseResponse
	if err := c.client.Call("Bridge.Pause", PauseRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop delivers the protocol stop callback.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.client.Call("Bridge.Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Seek moves playback to an absolute position.
func (c *Client) Seek(positionMs int64) (*SeekResponse, error) {
	var resp SeekResponse
	if err := c.client.Call("Bridge.Seek", SeekRequest{PositionMs: positionMs}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Key delivers a raw media-button press and waits for it to resolve.
func (c *Client) Key(key string) (*KeyResponse, error) {
	var resp KeyResponse
	if err := c.client.Call("Bridge.Key", KeyRequest{Key: key}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Search resolves a voice query.
func (c *Client) Search(query string) (*SearchResponse, error) {
	var resp SearchResponse
	if err := c.client.Call("Bridge.Search", SearchRequest{Query: query}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CustomAction dispatches a custom action by name.
func (c *Client) CustomAction(name string) (*CustomActionResponse, error) {
	var resp CustomActionResponse
	if err := c.client.Call("Bridge.CustomAction", CustomActionRequest{Name: name}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SkipToQueueItem starts the queued episode with the given position.
func (c *Client) SkipToQueueItem(queueID int64) (*SkipToQueueItemResponse, error) {
	var resp SkipToQueueItemResponse
	if err := c.client.Call("Bridge.SkipToQueueItem", SkipToQueueItemRequest{QueueID: queueID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the published session state.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Bridge.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Queue retrieves the published up-next list.
func (c *Client) Queue() (*QueueResponse, error) {
	var resp QueueResponse
	if err := c.client.Call("Bridge.Queue", QueueRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
