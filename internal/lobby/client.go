// Package lobby talks to the Klei DST lobby API: the gzip summary lists polled
// for the snapshot and the per-room read endpoint used for detail reports.
package lobby

import (
	"bufio"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/woozymasta/dstone/internal/config"
	"github.com/woozymasta/dstone/internal/models"
)

// GameID is the lobby game identifier sent with read queries.
const GameID = "DST"

var (
	// ErrNotFound means no region answered the read query with HTTP 200.
	ErrNotFound = errors.New("no matching room")

	// ErrRetrieval means a read request failed below HTTP and the lookup was abandoned.
	ErrRetrieval = errors.New("room retrieval failed")
)

// json keeps lobby numbers as json.Number so "0" and 600000 are mapped from
// their literal text rather than float64.
var json = jsoniter.Config{
	EscapeHTML:             false,
	UseNumber:              true,
	DisallowUnknownFields:  false,
	ValidateJsonRawMessage: false,
	CaseSensitive:          true,
}.Froze()

// Client queries the lobby endpoints described by config.Lobby.
type Client struct {
	http    *http.Client
	token   string
	listURL string
	readURL string
}

// New creates a lobby client. A zero Timeout leaves requests without a deadline.
func New(opts config.Lobby) *Client {
	return &Client{
		http:    &http.Client{Timeout: opts.Timeout},
		token:   opts.Token,
		listURL: opts.ListURL,
		readURL: opts.ReadURL,
	}
}

func (c *Client) summaryURL(region, platform string) string {
	return strings.NewReplacer("{region}", region, "{platform}", platform).Replace(c.listURL)
}

func (c *Client) roomURL(region string) string {
	return strings.ReplaceAll(c.readURL, "{region}", region)
}

// decodeResponse reads a lobby envelope, inflating it first when the body
// starts with the gzip magic bytes. The CDN serves .json.gz both with and
// without Content-Encoding, so the header cannot be trusted.
func decodeResponse(body io.Reader) (*models.LobbyResponse, error) {
	br := bufio.NewReader(body)

	var r io.Reader = br
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("open gzip body: %w", err)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	var resp models.LobbyResponse
	if err := json.NewDecoder(r).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode lobby response: %w", err)
	}

	return &resp, nil
}
