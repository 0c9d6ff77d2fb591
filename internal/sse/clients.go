// Package sse provides Server-Sent Events client management for live document reloads.
package sse

import (
	"sync"

	"github.com/technoflash/technoflash/internal/model"
)

type Client struct {
	Msg        chan string
	DocumentID model.DocumentID
}

type SSEClients struct {
	clients map[*Client]bool
	mu      sync.RWMutex
}

func NewSSEClients() *SSEClients {
	return &SSEClients{
		clients: make(map[*Client]bool),
	}
}

func (s *SSEClients) Add(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client] = true
}

func (s *SSEClients) Delete(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, client)
	close(client.Msg)
}

func (s *SSEClients) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

func (s *SSEClients) Broadcast(documentID model.DocumentID, msg string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for client := range s.clients {
		if client.DocumentID == documentID {
			select {
			case client.Msg <- msg:
			default:
			}
		}
	}
}
