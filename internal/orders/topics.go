package orders

import "strconv"

const (
	TopicOrderPlaced    = "order.placed"
	TopicOrderUpdated   = "order.updated"
	TopicOrderCancelled = "order.cancelled"
)

// TopicFor maps an event type to its topic.
func TopicFor(eventType string) (string, bool) {
	switch eventType {
	case EventOrderPlaced:
		return TopicOrderPlaced, true
	case EventOrderUpdated:
		return TopicOrderUpdated, true
	case EventOrderCancelled:
		return TopicOrderCancelled, true
	}
	return "", false
}

// Partition key = order_id, supaya urutan event per order tetap terjaga.
func PartitionKey(orderID int64) []byte { return []byte(strconv.FormatInt(orderID, 10)) }
