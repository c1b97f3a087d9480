package oauth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"linkmcp/pkg/logging"
)

// ProxyConfig carries everything the proxy needs to serve the
// authorization flow.
type ProxyConfig struct {
	// BaseURL is the public base URL of this proxy, used to build the
	// advertised endpoints and the upstream callback URL.
	BaseURL string

	// UpstreamAuthorizationURL is the upstream provider's authorization
	// endpoint users are redirected to.
	UpstreamAuthorizationURL string

	// UpstreamClientID identifies this proxy at the upstream provider.
	UpstreamClientID string

	Clients      *ClientStore
	Transactions *TransactionStore
	Codes        *AuthCodeStore
	Sessions     *SessionStore
	Signer       *Signer
	Exchanger    Exchanger
}

// Proxy implements the downstream-facing OAuth authorization server:
// discovery, dynamic registration, authorize, upstream callback, and token
// endpoints. It bridges downstream clients to the upstream provider's
// authorization-code flow.
type Proxy struct {
	baseURL          string
	upstreamAuthURL  string
	upstreamClientID string

	clients      *ClientStore
	transactions *TransactionStore
	codes        *AuthCodeStore
	sessions     *SessionStore
	signer       *Signer
	exchanger    Exchanger
}

// NewProxy creates a proxy from its configuration. All stores, the signer
// and the exchanger are injected so tests can run with isolated instances.
func NewProxy(cfg ProxyConfig) *Proxy {
	return &Proxy{
		baseURL:          strings.TrimRight(cfg.BaseURL, "/"),
		upstreamAuthURL:  cfg.UpstreamAuthorizationURL,
		upstreamClientID: cfg.UpstreamClientID,
		clients:          cfg.Clients,
		transactions:     cfg.Transactions,
		codes:            cfg.Codes,
		sessions:         cfg.Sessions,
		signer:           cfg.Signer,
		exchanger:        cfg.Exchanger,
	}
}

// CallbackURL returns the fixed redirect URI registered at the upstream
// provider.
func (p *Proxy) CallbackURL() string {
	return p.baseURL + "/oauth/callback"
}

// Routes mounts the proxy's endpoints on a chi router.
func (p *Proxy) Routes(r chi.Router) {
	r.Use(corsMiddleware)
	r.Get("/.well-known/oauth-authorization-server", p.handleMetadata)
	r.Post("/oauth/register", p.handleRegister)
	r.Get("/oauth/authorize", p.handleAuthorize)
	r.Get("/oauth/callback", p.handleCallback)
	r.Post("/oauth/token", p.handleToken)
	r.Get("/health", p.handleHealth)
}

// corsMiddleware allows browser-based clients from any origin to reach the
// proxy. Preflight requests short-circuit with 204.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (p *Proxy) handleMetadata(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, &Metadata{
		Issuer:                            p.baseURL,
		AuthorizationEndpoint:             p.baseURL + "/oauth/authorize",
		TokenEndpoint:                     p.baseURL + "/oauth/token",
		RegistrationEndpoint:              p.baseURL + "/oauth/register",
		ResponseTypesSupported:            []string{"code"},
		GrantTypesSupported:               []string{"authorization_code", "refresh_token"},
		CodeChallengeMethodsSupported:     []string{"S256", "plain"},
		TokenEndpointAuthMethodsSupported: []string{"none", "client_secret_post"},
		ScopesSupported:                   SupportedScopes,
	})
}

func (p *Proxy) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeOAuthError(w, http.StatusBadRequest, "invalid_client_metadata", "request body is not valid JSON")
		return
	}

	client := p.clients.Register(&req)
	grantTypes := req.GrantTypes
	if len(grantTypes) == 0 {
		grantTypes = []string{"authorization_code"}
	}

	writeJSON(w, http.StatusOK, &RegistrationResponse{
		ClientID:       client.ID,
		ClientSecret:   client.Secret,
		RedirectURIs:   client.RedirectURIs,
		ClientName:     client.Name,
		GrantTypes:     grantTypes,
		ClientIDIssued: client.CreatedAt.Unix(),
	})
}

func (p *Proxy) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	clientID := q.Get("client_id")
	redirectURI := q.Get("redirect_uri")
	responseType := q.Get("response_type")

	switch {
	case clientID == "":
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "client_id is required")
		return
	case redirectURI == "":
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "redirect_uri is required")
		return
	case responseType != "code":
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "response_type must be code")
		return
	}

	scopes := SupportedScopes
	if raw := q.Get("scope"); raw != "" {
		scopes = strings.Fields(raw)
	}

	txnID := newRandomID()
	p.transactions.Put(txnID, &Transaction{
		ClientID:            clientID,
		RedirectURI:         redirectURI,
		State:               q.Get("state"),
		CodeChallenge:       q.Get("code_challenge"),
		CodeChallengeMethod: q.Get("code_challenge_method"),
		Scopes:              scopes,
	})

	// The transaction ID doubles as the upstream state parameter so the
	// callback can correlate the reply. The upstream leg always requests
	// the full scope set and carries no PKCE parameters.
	upstream, err := url.Parse(p.upstreamAuthURL)
	if err != nil {
		writeOAuthError(w, http.StatusBadRequest, "server_error", "upstream authorization URL is invalid")
		return
	}
	uq := upstream.Query()
	uq.Set("response_type", "code")
	uq.Set("client_id", p.upstreamClientID)
	uq.Set("redirect_uri", p.CallbackURL())
	uq.Set("state", txnID)
	uq.Set("scope", strings.Join(SupportedScopes, " "))
	upstream.RawQuery = uq.Encode()

	logging.Info("OAuth", "Authorize: client=%s redirecting to upstream, txn=%s", clientID, logging.TruncateToken(txnID))
	http.Redirect(w, r, upstream.String(), http.StatusFound)
}

func (p *Proxy) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if upstreamErr := q.Get("error"); upstreamErr != "" {
		logging.Warn("OAuth", "Upstream returned error at callback: %s: %s", upstreamErr, q.Get("error_description"))
		writeOAuthError(w, http.StatusBadRequest, upstreamErr, q.Get("error_description"))
		return
	}

	code := q.Get("code")
	state := q.Get("state")
	if code == "" || state == "" {
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "code and state are required")
		return
	}

	txn, ok := p.transactions.Consume(state)
	if !ok {
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "expired or invalid state")
		return
	}

	creds, err := p.exchanger.ExchangeCode(r.Context(), code, p.CallbackURL())
	if err != nil {
		redirectWithError(w, r, txn.RedirectURI, "server_error", err.Error(), txn.State)
		return
	}

	downstreamCode := newRandomID()
	p.codes.Put(downstreamCode, &AuthCode{
		ClientID:            txn.ClientID,
		RedirectURI:         txn.RedirectURI,
		CodeChallenge:       txn.CodeChallenge,
		CodeChallengeMethod: txn.CodeChallengeMethod,
		Credentials:         creds,
	})

	target, err := url.Parse(txn.RedirectURI)
	if err != nil {
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "client redirect URI is invalid")
		return
	}
	tq := target.Query()
	tq.Set("code", downstreamCode)
	if txn.State != "" {
		tq.Set("state", txn.State)
	}
	target.RawQuery = tq.Encode()

	logging.Info("OAuth", "Callback: issued code %s for client=%s", logging.TruncateToken(downstreamCode), txn.ClientID)
	http.Redirect(w, r, target.String(), http.StatusFound)
}

func (p *Proxy) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "request body is not valid form data")
		return
	}

	if grantType := r.Form.Get("grant_type"); grantType != "authorization_code" {
		writeOAuthError(w, http.StatusBadRequest, "unsupported_grant_type", "only authorization_code is supported")
		return
	}

	code := r.Form.Get("code")
	if code == "" {
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "code is required")
		return
	}

	ac, ok := p.codes.Redeem(code)
	if !ok {
		writeOAuthError(w, http.StatusBadRequest, "invalid_grant", "authorization code is invalid, expired, or already used")
		return
	}

	if ac.CodeChallenge != "" {
		if !verifyPKCE(ac.CodeChallenge, ac.CodeChallengeMethod, r.Form.Get("code_verifier")) {
			writeOAuthError(w, http.StatusBadRequest, "invalid_grant", "code_verifier does not match the challenge")
			return
		}
	}

	subject := uuid.NewString()
	scope := strings.Join(SupportedScopes, " ")

	token, err := p.signer.Mint(map[string]interface{}{
		"sub":   subject,
		"scope": scope,
	}, AccessTokenTTL)
	if err != nil {
		logging.Error("OAuth", err, "Failed to mint access token")
		writeOAuthError(w, http.StatusInternalServerError, "server_error", "failed to issue access token")
		return
	}

	p.sessions.Put(subject, &Session{Credentials: ac.Credentials})

	logging.Info("OAuth", "Issued access token for subject=%s client=%s", subject, ac.ClientID)
	writeJSON(w, http.StatusOK, &TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(AccessTokenTTL / time.Second),
		Scope:       scope,
	})
}

func (p *Proxy) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// verifyPKCE checks a code_verifier against the challenge recorded at
// authorize time. Comparison is constant time for both methods.
func verifyPKCE(challenge, method, verifier string) bool {
	if verifier == "" {
		return false
	}
	switch method {
	case "S256", "":
		sum := sha256.Sum256([]byte(verifier))
		computed := base64.RawURLEncoding.EncodeToString(sum[:])
		return subtle.ConstantTimeCompare([]byte(computed), []byte(challenge)) == 1
	case "plain":
		return subtle.ConstantTimeCompare([]byte(verifier), []byte(challenge)) == 1
	default:
		return false
	}
}

func redirectWithError(w http.ResponseWriter, r *http.Request, redirectURI, code, description, state string) {
	target, err := url.Parse(redirectURI)
	if err != nil {
		writeOAuthError(w, http.StatusBadRequest, "invalid_request", "client redirect URI is invalid")
		return
	}
	q := target.Query()
	q.Set("error", code)
	q.Set("error_description", description)
	if state != "" {
		q.Set("state", state)
	}
	target.RawQuery = q.Encode()
	http.Redirect(w, r, target.String(), http.StatusFound)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("OAuth", err, "Failed to encode JSON response")
	}
}

func writeOAuthError(w http.ResponseWriter, status int, code, description string) {
	writeJSON(w, status, &Error{Code: code, Description: description})
}
