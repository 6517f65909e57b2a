package hotstreak

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"

	"github.com/riskibarqy/hotstreak-pipeline/internal/platform/logging"
	"github.com/riskibarqy/hotstreak-pipeline/internal/usecase"
)

const (
	defaultAPIURL        = "https://api3.hotstreak.gg/graphql"
	defaultTimeout       = 20 * time.Second
	maxResponseBodySize  = 16 << 20
	gamesOperationName   = "games"
	headerHS3Version     = "x-hs3-version"
	headerRequestedWith  = "x-requested-with"
	headerPrivyIDToken   = "privy-id-token"
	redactedPlaceholder  = "REDACTED"
	maxLoggedBodyPreview = 240
)

var (
	ErrTransport         = crerr.New("hotstreak transport failure")
	ErrUnexpectedStatus  = crerr.New("hotstreak unexpected status")
	ErrMalformedResponse = crerr.New("hotstreak malformed response")
	ErrGraphQL           = crerr.New("hotstreak graphql error")
)

var (
	_ usecase.GamesProvider  = (*Client)(nil)
	_ usecase.SportsProvider = (*Client)(nil)
)

type ClientConfig struct {
	HTTPClient    *fasthttp.Client
	APIURL        string
	Origin        string
	Referer       string
	UserAgent     string
	Version       string
	RequestedWith string
	IDToken       string
	Timeout       time.Duration
	Logger        *logging.Logger
}

type Client struct {
	httpClient    *fasthttp.Client
	apiURL        string
	origin        string
	referer       string
	userAgent     string
	version       string
	requestedWith string
	idToken       string
	timeout       time.Duration
	logger        *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                "hotstreak-pipeline",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxResponseBodySize,
		}
	}

	apiURL := strings.TrimSpace(cfg.APIURL)
	if apiURL == "" {
		apiURL = defaultAPIURL
	}

	idToken := strings.TrimSpace(cfg.IDToken)
	if idToken == "" {
		logger.Warn("hotstreak id token is empty, requests will be sent unauthenticated")
	}

	return &Client{
		httpClient:    httpClient,
		apiURL:        apiURL,
		origin:        strings.TrimSpace(cfg.Origin),
		referer:       strings.TrimSpace(cfg.Referer),
		userAgent:     strings.TrimSpace(cfg.UserAgent),
		version:       strings.TrimSpace(cfg.Version),
		requestedWith: strings.TrimSpace(cfg.RequestedWith),
		idToken:       idToken,
		timeout:       timeout,
		logger:        logger,
	}
}

// FetchGames posts the games query and returns the board with the raw body.
func (c *Client) FetchGames(ctx context.Context) ([]usecase.ExternalGame, []byte, error) {
	body, err := sonic.Marshal(graphQLRequest{Query: gamesQuery, OperationName: gamesOperationName})
	if err != nil {
		return nil, nil, crerr.Wrap(err, "encode games query")
	}

	raw, err := c.do(ctx, fasthttp.MethodPost, c.apiURL, body)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch games: %w", err)
	}

	var envelope gamesEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, nil, fmt.Errorf("%w: decode games: %v body=%s", ErrMalformedResponse, err, abbreviateBody(raw))
	}
	if err := c.checkGraphQLErrors(ctx, "games", envelope.Errors, envelope.Data != nil); err != nil {
		return nil, nil, err
	}
	if envelope.Data == nil {
		return []usecase.ExternalGame{}, raw, nil
	}

	games := make([]usecase.ExternalGame, 0, len(envelope.Data.Games))
	for _, node := range envelope.Data.Games {
		games = append(games, mapGameNode(node))
	}
	return games, raw, nil
}

// FetchSports reads the sport taxonomy through a GET query and returns it with the raw body.
func (c *Client) FetchSports(ctx context.Context) ([]usecase.ExternalSport, []byte, error) {
	raw, err := c.do(ctx, fasthttp.MethodGet, c.systemURL(), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch sports: %w", err)
	}

	var envelope systemEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err != nil {
		return nil, nil, fmt.Errorf("%w: decode sports: %v body=%s", ErrMalformedResponse, err, abbreviateBody(raw))
	}
	if err := c.checkGraphQLErrors(ctx, "system", envelope.Errors, envelope.Data != nil); err != nil {
		return nil, nil, err
	}
	if envelope.Data == nil || envelope.Data.System == nil {
		return []usecase.ExternalSport{}, raw, nil
	}

	sports := make([]usecase.ExternalSport, 0, len(envelope.Data.System.Sports))
	for _, node := range envelope.Data.System.Sports {
		sports = append(sports, mapSportNode(node))
	}
	return sports, raw, nil
}

func (c *Client) systemURL() string {
	separator := "?"
	if strings.Contains(c.apiURL, "?") {
		separator = "&"
	}
	return c.apiURL + separator + url.Values{"query": {systemQuery}}.Encode()
}

func (c *Client) do(ctx context.Context, method, uri string, body []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(uri)
	req.Header.SetMethod(method)
	c.applyHeaders(&req.Header)
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBodyRaw(body)
	}

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	if err := c.httpClient.DoDeadline(req, resp, deadline); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %s request: %s", ErrTransport, method, c.sanitize(err.Error()))
	}

	raw := append([]byte(nil), resp.Body()...)
	status := resp.StatusCode()
	if status < fasthttp.StatusOK || status >= fasthttp.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: status=%d body=%s", ErrUnexpectedStatus, status, c.sanitize(abbreviateBody(raw)))
	}

	return raw, nil
}

func (c *Client) applyHeaders(h *fasthttp.RequestHeader) {
	h.Set(fasthttp.HeaderAccept, "application/json")
	if c.origin != "" {
		h.Set(fasthttp.HeaderOrigin, c.origin)
	}
	if c.referer != "" {
		h.Set(fasthttp.HeaderReferer, c.referer)
	}
	if c.userAgent != "" {
		h.SetUserAgent(c.userAgent)
	}
	if c.version != "" {
		h.Set(headerHS3Version, c.version)
	}
	if c.requestedWith != "" {
		h.Set(headerRequestedWith, c.requestedWith)
	}
	if c.idToken != "" {
		h.Set(headerPrivyIDToken, c.idToken)
	}
}

// checkGraphQLErrors fails only when the server sent errors and no data.
// Partial responses are kept and the errors logged.
func (c *Client) checkGraphQLErrors(ctx context.Context, operation string, errs []graphQLError, hasData bool) error {
	if len(errs) == 0 {
		return nil
	}

	messages := make([]string, 0, len(errs))
	for _, item := range errs {
		messages = append(messages, c.sanitize(item.Message))
	}
	joined := strings.Join(messages, "; ")

	if !hasData {
		return fmt.Errorf("%w: %s: %s", ErrGraphQL, operation, joined)
	}
	c.logger.WarnContext(ctx, "hotstreak returned partial data with errors", "operation", operation, "errors", joined)
	return nil
}

func (c *Client) sanitize(value string) string {
	return sanitizeSensitiveText(value, c.idToken)
}

func mapGameNode(node gameNode) usecase.ExternalGame {
	game := usecase.ExternalGame{
		ID:          string(node.ID),
		Opponents:   make([]usecase.ExternalOpponent, 0, len(node.Opponents)),
		ScheduledAt: node.ScheduledAt,
	}
	for _, opponent := range node.Opponents {
		item := usecase.ExternalOpponent{Designation: opponent.Designation}
		if opponent.Team != nil {
			item.Team = usecase.ExternalTeam{
				Abbreviation: opponent.Team.Abbreviation,
				Name:         opponent.Team.Name,
			}
		}
		game.Opponents = append(game.Opponents, item)
	}
	if node.League != nil {
		game.League = &usecase.ExternalLeague{
			Name:    node.League.Name,
			SportID: string(node.League.SportID),
		}
	}
	return game
}

func mapSportNode(node sportNode) usecase.ExternalSport {
	sport := usecase.ExternalSport{
		ID:         string(node.ID),
		Name:       node.Name,
		Categories: make([]usecase.ExternalCategory, 0, len(node.Categories)),
	}
	for _, item := range node.Categories {
		sport.Categories = append(sport.Categories, usecase.ExternalCategory{
			ID:        string(item.ID),
			Name:      item.Name,
			GroupName: item.GroupName,
		})
	}
	return sport
}

func sanitizeSensitiveText(value, token string) string {
	value = strings.TrimSpace(value)
	if value == "" || token == "" {
		return value
	}
	return strings.ReplaceAll(value, token, redactedPlaceholder)
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= maxLoggedBodyPreview {
		return text
	}
	return text[:maxLoggedBodyPreview] + "..."
}
