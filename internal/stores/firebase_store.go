package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"player-analytics/internal/records"
	"player-analytics/internal/shared/loggers"

	"github.com/cenkalti/backoff/v5"
	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const storeFirebase = "firebase"

var firebaseScopes = []string{
	"https://www.googleapis.com/auth/firebase.database",
	"https://www.googleapis.com/auth/userinfo.email",
}

// FirebaseOptions configures the Realtime Database REST client.
type FirebaseOptions struct {
	URL        string
	HTTPClient *http.Client
	// Timeout bounds a single request attempt.
	Timeout    time.Duration
	MaxRetries int
	// InitialBackoff overrides the first retry delay; zero keeps the library default.
	InitialBackoff time.Duration
}

type firebaseStore struct {
	baseURL string
	opts    FirebaseOptions
}

// NewFirebaseStore returns a reader over the Realtime Database REST API.
func NewFirebaseStore(opts FirebaseOptions) (SnapshotReader, error) {
	base := strings.TrimRight(opts.URL, "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" || u.RawQuery != "" {
		return nil, fmt.Errorf("%w: database url %q", ErrInvalidPath, opts.URL)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &firebaseStore{baseURL: base, opts: opts}, nil
}

// NewFirebaseHTTPClient builds an HTTP client authorized with a service-account
// key given inline or by path. Without credentials it returns a plain client,
// which is enough for public databases and the local emulator.
func NewFirebaseHTTPClient(ctx context.Context, credentialsJSON, credentialsPath string) (*http.Client, error) {
	data := []byte(credentialsJSON)
	if len(data) == 0 && credentialsPath != "" {
		var err error
		data, err = os.ReadFile(credentialsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
	}
	if len(data) == 0 {
		return &http.Client{}, nil
	}

	data, err := unescapePrivateKey(data)
	if err != nil {
		return nil, err
	}
	creds, err := google.CredentialsFromJSON(ctx, data, firebaseScopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}
	return oauth2.NewClient(ctx, creds.TokenSource), nil
}

// unescapePrivateKey turns literal "\n" sequences of private_key into newlines.
// Keys passed through environment variables usually arrive escaped.
func unescapePrivateKey(data []byte) ([]byte, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode service account credentials: %w", err)
	}
	key, ok := m["private_key"].(string)
	if !ok || !strings.Contains(key, `\n`) {
		return data, nil
	}
	m["private_key"] = strings.ReplaceAll(key, `\n`, "\n")
	return json.Marshal(m)
}

func (s *firebaseStore) GetSnapshot(ctx context.Context, path string) (records.Snapshot, error) {
	start := time.Now()
	snap, err := s.getSnapshot(ctx, opSnapshot, path, nil)
	observeRead(storeFirebase, opSnapshot, start, err)
	return snap, err
}

func (s *firebaseStore) GetOrderedTail(ctx context.Context, path, field string, limit int) (records.Snapshot, error) {
	if limit <= 0 {
		return records.Snapshot{}, nil
	}
	start := time.Now()
	query := url.Values{}
	query.Set("orderBy", strconv.Quote(field))
	query.Set("limitToLast", strconv.Itoa(limit))
	snap, err := s.getSnapshot(ctx, opOrderedTail, path, query)
	observeRead(storeFirebase, opOrderedTail, start, err)
	return snap, err
}

func (s *firebaseStore) GetShallowKeys(ctx context.Context, path string) ([]string, error) {
	start := time.Now()
	query := url.Values{}
	query.Set("shallow", "true")
	keys, err := s.getKeys(ctx, path, query)
	observeRead(storeFirebase, opShallowKeys, start, err)
	return keys, err
}

func (s *firebaseStore) getKeys(ctx context.Context, path string, query url.Values) ([]string, error) {
	body, err := s.fetch(ctx, opShallowKeys, path, query)
	if err != nil {
		return nil, err
	}
	keys, err := records.DecodeKeys(body)
	if err != nil {
		return nil, errUnavailable(storeFirebase, opShallowKeys, path, err)
	}
	return keys, nil
}

func (s *firebaseStore) getSnapshot(ctx context.Context, op, path string, query url.Values) (records.Snapshot, error) {
	body, err := s.fetch(ctx, op, path, query)
	if err != nil {
		return records.Snapshot{}, err
	}
	snap, err := records.DecodeSnapshot(body)
	if err != nil {
		return records.Snapshot{}, errUnavailable(storeFirebase, op, path, err)
	}
	return snap, nil
}

// fetch GETs {url}/{path}.json, retrying transport failures and 5xx/429
// replies with exponential backoff.
func (s *firebaseStore) fetch(ctx context.Context, op, path string, query url.Values) ([]byte, error) {
	segments, err := splitPath(path)
	if err != nil {
		return nil, errUnavailable(storeFirebase, op, path, err)
	}
	endpoint := s.endpoint(segments, query)
	logger := loggers.Ctx(ctx).With().Str(loggers.FieldStore, storeFirebase).Str(loggers.FieldPath, path).Logger()

	bo := backoff.NewExponentialBackOff()
	if s.opts.InitialBackoff > 0 {
		bo.InitialInterval = s.opts.InitialBackoff
	}
	attempt := 0
	body, err := backoff.Retry(ctx, func() ([]byte, error) {
		attempt++
		body, err := s.do(ctx, endpoint)
		if err != nil {
			logger.Debug().Err(err).Int(loggers.FieldAttempt, attempt).Msg("store read attempt failed")
		}
		return body, err
	},
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(s.opts.MaxRetries+1)),
	)
	if err != nil {
		return nil, errUnavailable(storeFirebase, op, path, err)
	}
	return body, nil
}

func (s *firebaseStore) do(ctx context.Context, endpoint string) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	resp, err := s.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusOK {
		return body, nil
	}

	replyErr := replyError(resp.StatusCode, body)
	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return nil, replyErr
	}
	return nil, backoff.Permanent(replyErr)
}

func (s *firebaseStore) endpoint(segments []string, query url.Values) string {
	escaped := make([]string, len(segments))
	for i, seg := range segments {
		escaped[i] = url.PathEscape(seg)
	}
	endpoint := s.baseURL + "/" + strings.Join(escaped, "/") + ".json"
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint
}

// replyError maps an error reply to an error. The database rejects ordered
// queries on unindexed fields with 400 and an "Index not defined" message.
func replyError(status int, body []byte) error {
	msg := gjson.GetBytes(body, "error").String()
	if msg == "" {
		msg = http.StatusText(status)
	}
	if status == http.StatusBadRequest && strings.Contains(msg, "Index not defined") {
		return fmt.Errorf("%w: %s", ErrMissingIndex, msg)
	}
	return fmt.Errorf("%w: status %d: %s", ErrUnexpectedReply, status, msg)
}
