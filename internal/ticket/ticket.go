// Package ticket issues sale identifiers. Row ids are uuids; ticket numbers
// come from a snowflake node, so rapid successive sales and process restarts
// can never collide the way millisecond-clock tickets could.
package ticket

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

// Generator issues sale ids, item ids and human-readable ticket numbers
type Generator struct {
	node *snowflake.Node
}

// NewGenerator creates a generator. nodeID distinguishes tills when several
// point at the same backend; a single-till deployment uses 0.
func NewGenerator(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %w", err)
	}
	return &Generator{node: node}, nil
}

// SaleID returns a new unique sale id
func (g *Generator) SaleID() string {
	return uuid.New().String()
}

// ItemID returns a new unique sale item id
func (g *Generator) ItemID() string {
	return uuid.New().String()
}

// ProductID returns a new unique product id
func (g *Generator) ProductID() string {
	return uuid.New().String()
}

// TicketNumber returns the next receipt ticket number
func (g *Generator) TicketNumber() string {
	return "T" + g.node.Generate().String()
}
