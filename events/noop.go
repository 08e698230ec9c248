package events

// NoopPublisher is a no-op implementation used when Kafka is not configured.
type NoopPublisher struct{}

func NewNoopPublisher() *NoopPublisher { return &NoopPublisher{} }

func (n *NoopPublisher) Publish(_ PlanGenerated) error { return nil }
func (n *NoopPublisher) Close() error                  { return nil }
