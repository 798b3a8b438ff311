package enums

// OutboxEventType names a domain event emitted through the outbox.
type OutboxEventType string

const (
	EventAllocationCommitted OutboxEventType = "allocation.committed"
	EventInventoryWithdrawn  OutboxEventType = "inventory.withdrawn"
)

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	AggregateAllocation    OutboxAggregateType = "allocation"
	AggregateInventoryItem OutboxAggregateType = "inventory_item"
)
