// Copyright (c) 2026 Coursedesk. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package identity talks to the identity provider's backend API.

Coursedesk never issues tokens. The only write it performs at the provider is
promoting a user to the educator role through their public metadata; the role then
appears as the "role" claim of the user's next session token.
*/
package identity

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/taibuivan/coursedesk/internal/platform/sec"
)

const requestTimeout = 10 * time.Second

// Client is a backend API client authenticated with the provider secret key.
type Client struct {
	http *resty.Client
}

// NewClient builds a client for baseURL (e.g. https://api.clerk.com).
func NewClient(baseURL, secretKey string) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetAuthToken(secretKey).
		SetTimeout(requestTimeout).
		SetHeader("Accept", "application/json")

	return &Client{http: client}
}

type metadataUpdate struct {
	PublicMetadata map[string]any `json:"public_metadata"`
}

// GrantEducatorRole merges role=educator into the user's public metadata.
func (client *Client) GrantEducatorRole(ctx context.Context, userID string) error {
	response, err := client.http.R().
		SetContext(ctx).
		SetPathParam("userID", userID).
		SetBody(metadataUpdate{PublicMetadata: map[string]any{"role": string(sec.RoleEducator)}}).
		Patch("/v1/users/{userID}/metadata")
	if err != nil {
		return fmt.Errorf("identity: update metadata: %w", err)
	}

	if response.IsError() {
		return fmt.Errorf("identity: update metadata: status %d: %s",
			response.StatusCode(), strings.TrimSpace(response.String()))
	}

	return nil
}
