package staff

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)
