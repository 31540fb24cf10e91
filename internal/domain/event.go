package domain

type ServiceEvent string

const (
	ServiceInitialized ServiceEvent = "initialized"
	ServiceDisposed    ServiceEvent = "disposed"
)
