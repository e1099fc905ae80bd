// userhub SDK Quickstart
//
// This is a minimal example of managing users through the Go SDK.
//
// Usage:
//   export USERHUB_API_KEY="uk_live_your_key_here"
//   export USERHUB_BASE_URL="http://localhost:8080"
//   go run main.go

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/userhub/userhub/client"
)

func main() {
	apiKey := os.Getenv("USERHUB_API_KEY")
	if apiKey == "" {
		log.Fatal("USERHUB_API_KEY environment variable is required")
	}

	baseURL := os.Getenv("USERHUB_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	users := client.NewUsers(client.NewHTTPClient(baseURL, apiKey))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Create a user with an attached doc.
	created, err := users.Create(ctx, client.CreateParams{
		Name:  "Ada Lovelace",
		About: "Mathematician and writer",
		Docs: []map[string]any{
			{"title": "notes", "content": "Sketch of the Analytical Engine"},
		},
	})
	if err != nil {
		log.Fatalf("create user: %v", err)
	}
	fmt.Println("created user:", created.ID)

	// Fetch it back.
	user, err := users.Get(ctx, created.ID)
	if err != nil {
		log.Fatalf("get user: %v", err)
	}
	fmt.Printf("fetched: %s (%s)\n", user.Name, user.About)

	// Partial update: only the about field changes.
	about := "Mathematician, writer, and first programmer"
	if _, err := users.Update(ctx, client.UpdateParams{ID: created.ID, About: &about}); err != nil {
		log.Fatalf("update user: %v", err)
	}

	// List the first page.
	items, err := users.List(ctx, &client.ListParams{Limit: 10})
	if err != nil {
		log.Fatalf("list users: %v", err)
	}
	fmt.Printf("listing returned %d users\n", len(items))

	// Clean up.
	if err := users.Delete(ctx, created.ID); err != nil {
		log.Fatalf("delete user: %v", err)
	}

	// API errors carry the server's code and message.
	if _, err := users.Get(ctx, created.ID); err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			fmt.Printf("expected failure after delete: %d %s\n", apiErr.StatusCode, apiErr.Code)
		}
	}
}
