// Package queue - services.go
// The service catalog offered at the chair.
package queue

// Service is the treatment a customer queues for.
type Service string

const (
	ServiceHaircut Service = "haircut"
	ServiceBeard   Service = "beard"
	ServiceCombo   Service = "haircut+beard"
)

// Enum-like map: service → chair time in minutes.
var serviceMinutes = map[Service]int{
	ServiceHaircut: 20,
	ServiceBeard:   5,
	ServiceCombo:   25,
}

var serviceLabels = map[Service]string{
	ServiceHaircut: "Haircut",
	ServiceBeard:   "Beard Trim",
	ServiceCombo:   "Haircut + Beard",
}

// Services lists the catalog in menu order.
func Services() []Service {
	return []Service{ServiceHaircut, ServiceBeard, ServiceCombo}
}

// Valid reports whether s is a known service.
func (s Service) Valid() bool {
	_, ok := serviceMinutes[s]
	return ok
}

// Minutes returns the chair time for s, falling back to the haircut
// duration for anything unknown.
func (s Service) Minutes() int {
	if m, ok := serviceMinutes[s]; ok {
		return m
	}
	return serviceMinutes[ServiceHaircut]
}

// Label returns the display name for s.
func (s Service) Label() string {
	if l, ok := serviceLabels[s]; ok {
		return l
	}
	return string(s)
}

// ParseService maps user input to a Service, accepting the wire form.
func ParseService(raw string) (Service, bool) {
	s := Service(raw)
	if s.Valid() {
		return s, true
	}
	return "", false
}
