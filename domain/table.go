package domain

// Table is a mongo collection name.
type Table string

const (
	TableOrders        Table = "orders"
	TableCollections   Table = "collections"
	TableTokenSets     Table = "token_sets"
	TablePayTokens     Table = "pay_tokens"
	TableTrackerStates Table = "tracker_states"
	TableBlocks        Table = "blocks"
	TableCrossPosts    Table = "cross_posting_orders"
	TableFillEvents    Table = "fill_events"
	TableCancelEvents  Table = "cancel_events"
)
