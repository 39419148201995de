package core

import (
	"fmt"
	"testing"
)

func benchmarkHubBroadcast(b *testing.B, recipients int) {
	hub := NewHub()

	clients := make([]*Client, 0, recipients)
	for i := 0; i < recipients; i++ {
		c := NewClient(fmt.Sprintf("c%d", i), int64(i+1))
		hub.Join(c, "1-2")
		clients = append(clients, c)
	}

	// Drain events so the buffered channels never fill up.
	for _, c := range clients {
		go func(cl *Client) {
			for range cl.Events {
			}
		}(c)
	}

	event := &Event{Kind: EventMessage}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		hub.Broadcast("1-2", event)
	}
}

func BenchmarkHubBroadcast_2(b *testing.B)   { benchmarkHubBroadcast(b, 2) }
func BenchmarkHubBroadcast_100(b *testing.B) { benchmarkHubBroadcast(b, 100) }
