package fetch

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/docker/go-units"
	"github.com/go-resty/resty/v2"

	"github.com/wtfsayo/beerscape/internal/config"
)

type Kind uint8

const KindSuccess Kind = 0
const KindNotFound Kind = 1
const KindTransient Kind = 2
const KindPermanent Kind = 3

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindNotFound:
		return "not-found"
	case KindTransient:
		return "transient"
	case KindPermanent:
		return "permanent"
	}
	return "unknown"
}

// Outcome is the classified result of one fetch attempt.
// Payload is only set for KindSuccess, Err only for the two error kinds.
type Outcome struct {
	Err     error
	Payload []byte
	ID      uint32
	Kind    Kind
}

type Fetcher interface {
	Fetch(ctx context.Context, id uint32) Outcome
}

// a recipe document is a few KiB of XML, anything bigger is not a recipe.
const maxPayloadSize = units.MiB * 16

func New(cfg config.Application) *Client {
	tr := &http.Transport{
		MaxIdleConns:       cfg.Concurrency,
		IdleConnTimeout:    30 * time.Second,
		DisableCompression: true,
	}
	hc := &http.Client{Transport: tr}

	return &Client{
		http:    resty.NewWithClient(hc).SetHeader("User-Agent", cfg.UserAgent),
		baseURL: cfg.BaseURL,
		timeout: cfg.RequestTimeout(),
	}
}

type Client struct {
	http    *resty.Client
	baseURL string
	timeout time.Duration
}

var _ Fetcher = (*Client)(nil)

// Fetch issues one GET for id and classifies the response.
// Network and timeout errors are transient, 404/410 means the remote has no
// recipe at this id, 5xx is transient, any other non-2xx is permanent.
// A 2xx body must be non-empty XML or the outcome is permanent.
func (c *Client) Fetch(ctx context.Context, id uint32) Outcome {
	rctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.http.R().
		SetContext(rctx).
		SetQueryParam("id", strconv.FormatUint(uint64(id), 10)).
		Get(c.baseURL)
	if err != nil {
		return Outcome{ID: id, Kind: KindTransient, Err: err}
	}

	code := res.StatusCode()
	switch {
	case code == http.StatusNotFound || code == http.StatusGone:
		return Outcome{ID: id, Kind: KindNotFound}
	case code >= http.StatusInternalServerError:
		return Outcome{ID: id, Kind: KindTransient, Err: fmt.Errorf("server returned %s", res.Status())}
	case code < http.StatusOK || code >= http.StatusMultipleChoices:
		return Outcome{ID: id, Kind: KindPermanent, Err: fmt.Errorf("unexpected status %s", res.Status())}
	}

	body := res.Body()
	if len(body) == 0 || len(body) > maxPayloadSize || body[0] != '<' {
		return Outcome{ID: id, Kind: KindPermanent, Err: fmt.Errorf("id %d: body is not a recipe document", id)}
	}

	return Outcome{ID: id, Kind: KindSuccess, Payload: body}
}
