package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// NotifierPort is the interface other modules use to read notifications.
type NotifierPort interface {
	Recent(ctx context.Context, limit int) ([]*Notification, error)
}

// Adapter implements NotifierPort using the service container.
type Adapter struct {
	container mono.ServiceContainer
}

// NewAdapter creates a new notifier adapter.
func NewAdapter(container mono.ServiceContainer) *Adapter {
	return &Adapter{container: container}
}

var _ NotifierPort = (*Adapter)(nil)

// Recent returns recent notifications, newest first.
func (a *Adapter) Recent(ctx context.Context, limit int) ([]*Notification, error) {
	req := RecentRequest{Limit: limit}
	var resp RecentResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "recent", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("recent request failed: %w", err)
	}
	return resp.Notifications, nil
}
