package pinecone

// DataPlane lets tests stand in for the gRPC index connection.
type DataPlane = dataPlane

// WithDataPlane replaces the SDK connection opened for the index host.
func WithDataPlane(dial func(host string) (DataPlane, error)) Option {
	return func(o *options) { o.dial = dial }
}
