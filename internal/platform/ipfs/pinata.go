package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/medrec/medrec/internal/platform/httperr"
)

// PinataConfig configures the Pinata-backed store.
type PinataConfig struct {
	Endpoint string   // pinning endpoint, e.g. https://api.pinata.cloud/pinning/pinFileToIPFS
	JWT      string   // bearer credential for the pinning service
	Gateways []string // ordered fallback gateway base URLs, e.g. https://ipfs.io/ipfs
	MaxBytes int64    // upload size limit
}

// PinataStore pins files through the Pinata API and fetches them back from
// public IPFS gateways.
type PinataStore struct {
	http     *resty.Client
	endpoint string
	gateways []string
	maxBytes int64
	logger   zerolog.Logger
}

// attemptTimeout bounds each individual gateway request so one slow gateway
// cannot consume the whole request budget.
const attemptTimeout = 10 * time.Second

func NewPinataStore(cfg PinataConfig, logger zerolog.Logger) *PinataStore {
	client := resty.New().
		SetAuthToken(cfg.JWT).
		SetTimeout(30 * time.Second).
		SetHeader("Accept", "application/json")

	return &PinataStore{
		http:     client,
		endpoint: cfg.Endpoint,
		gateways: cfg.Gateways,
		maxBytes: cfg.MaxBytes,
		logger:   logger,
	}
}

type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
	PinSize  int64  `json:"PinSize"`
}

// Store uploads the file to the pinning endpoint and returns the CID the
// endpoint assigned.
func (s *PinataStore) Store(ctx context.Context, filename string, content io.Reader) (string, error) {
	if filename == "" {
		return "", ErrMissingFileName
	}

	// Buffer with a hard cap so oversized uploads fail before leaving the
	// process.
	data, err := io.ReadAll(io.LimitReader(content, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", ErrFileTooLarge
	}

	resp, err := s.http.R().
		SetContext(ctx).
		SetFileReader("file", filename, bytes.NewReader(data)).
		Post(s.endpoint)
	if err != nil {
		return "", httperr.Upstream(err, "pinning service unreachable")
	}
	if resp.IsError() {
		return "", httperr.Upstream(fmt.Errorf("status %d: %s", resp.StatusCode(), resp.String()), "pinning service rejected upload")
	}

	var pinned pinResponse
	if err := json.Unmarshal(resp.Body(), &pinned); err != nil {
		return "", httperr.Upstream(err, "pinning service returned malformed response")
	}
	if pinned.IpfsHash == "" {
		return "", httperr.Upstream(fmt.Errorf("empty IpfsHash in response"), "pinning service returned no CID")
	}

	s.logger.Info().Str("cid", pinned.IpfsHash).Str("filename", filename).Int("size", len(data)).Msg("pinned file")
	return pinned.IpfsHash, nil
}

// Fetch tries each configured gateway in order and returns the first
// successful body. All failures collapse into ErrContentUnavailable.
func (s *PinataStore) Fetch(ctx context.Context, cid string) ([]byte, error) {
	for _, gateway := range s.gateways {
		url := fmt.Sprintf("%s/%s", strings.TrimRight(gateway, "/"), cid)

		attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
		resp, err := s.http.R().SetContext(attemptCtx).Get(url)
		cancel()

		if err != nil {
			s.logger.Warn().Err(err).Str("gateway", gateway).Str("cid", cid).Msg("gateway fetch failed")
			continue
		}
		if resp.IsError() {
			s.logger.Warn().Int("status", resp.StatusCode()).Str("gateway", gateway).Str("cid", cid).Msg("gateway returned error status")
			continue
		}
		return resp.Body(), nil
	}
	return nil, ErrContentUnavailable
}

// PublicURL returns the canonical public URL for a CID, served from the
// first configured gateway. This is what gets persisted as file_url.
func (s *PinataStore) PublicURL(cid string) string {
	if len(s.gateways) == 0 {
		return cid
	}
	return fmt.Sprintf("%s/%s", strings.TrimRight(s.gateways[0], "/"), cid)
}
