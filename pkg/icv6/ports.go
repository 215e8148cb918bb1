package icv6

import (
	"fmt"

	"go.bug.st/serial/enumerator"
)

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, p := range ports {
		desc := p.Name // Use name as description if we can't get more info
		if p.IsUSB {
			desc = fmt.Sprintf("%s (USB %s:%s %s)", p.Name, p.VID, p.PID, p.Product)
		}
		result = append(result, Port{
			Name:        p.Name,
			Description: desc,
		})
	}

	return result, nil
}
