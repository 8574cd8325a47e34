package enum

// ── Seating units ──

const (
	TableStatusAvailable = "available"
	TableStatusOccupied  = "occupied"
)

// ── Live update topics (WebSocket subscriptions) ──

const (
	TopicTables         = "tables"
	TopicInventory      = "inventory"
	TopicSales          = "sales"
	TopicPurchaseOrders = "purchase_orders"
)

// AllTopics is the default subscription set for a dashboard connection.
var AllTopics = []string{TopicTables, TopicInventory, TopicSales, TopicPurchaseOrders}

// ── Event types (WebSocket payloads and message-bus routing keys) ──

const (
	EventTableUpdated         = "table.updated"
	EventInventoryCreated     = "inventory.created"
	EventInventoryUpdated     = "inventory.updated"
	EventInventoryDeleted     = "inventory.deleted"
	EventSaleCreated          = "sale.created"
	EventPurchaseOrderCreated = "purchase_order.created"
	EventPurchaseOrderDeleted = "purchase_order.deleted"
)
