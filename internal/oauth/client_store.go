package oauth

import (
	"sync"
	"time"

	"linkmcp/pkg/logging"
)

// ClientStore provides thread-safe storage for dynamically registered
// clients. Registrations live for the lifetime of the process; there is no
// expiry and no persistence, so clients re-register after a restart.
type ClientStore struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewClientStore creates an empty client store.
func NewClientStore() *ClientStore {
	return &ClientStore{
		clients: make(map[string]*Client),
	}
}

// Register creates a new client from a registration request and stores it.
// The generated secret equals the client ID; the proxy never authenticates
// clients by secret, every token request is protected by the single-use
// code instead.
func (cs *ClientStore) Register(req *RegistrationRequest) *Client {
	id := newRandomID()
	client := &Client{
		ID:           id,
		Secret:       id,
		RedirectURIs: req.RedirectURIs,
		Name:         req.ClientName,
		CreatedAt:    time.Now(),
	}

	cs.mu.Lock()
	cs.clients[id] = client
	cs.mu.Unlock()

	logging.Info("OAuth", "Registered client id=%s name=%q redirect_uris=%v", id, req.ClientName, req.RedirectURIs)
	return client
}

// Get returns the client for the given ID.
func (cs *ClientStore) Get(id string) (*Client, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	client, ok := cs.clients[id]
	return client, ok
}

// Len reports the number of registered clients.
func (cs *ClientStore) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.clients)
}
