// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package realtime fans out change notifications for ordered entity
// lists. A mutation publishes its scope topic; watchers re-read the full
// sibling list and push it to connected clients, so every subscriber
// always sees a complete, consistently sorted snapshot rather than a
// diff.
package realtime

import (
	"context"

	"github.com/google/uuid"
)

// Scope topics. Globally ordered families use a fixed topic; subcategory
// lists get one topic per owning category.
const (
	TopicCategories = "categories"
	TopicGlossary   = "glossary"
	TopicDiagrams   = "diagrams"
	TopicTemplates  = "templates"
)

// SubcategoriesTopic returns the change topic for one category's
// subcategory list.
func SubcategoriesTopic(categoryID uuid.UUID) string {
	return "subcategories:" + categoryID.String()
}

// Broker distributes change events by topic. Events carry no payload:
// subscribers re-query on every event.
type Broker interface {
	// Publish signals that the lists under topic have changed.
	Publish(ctx context.Context, topic string) error

	// Subscribe returns a channel receiving one value per change event
	// and a stop function releasing the subscription. Calling stop more
	// than once is safe; after stop the channel is closed.
	Subscribe(ctx context.Context, topic string) (<-chan struct{}, func())
}
