package netcollab

import "github.com/vishvananda/netlink"

// Counters is the per-interface counter set §4.5's read-only derived
// properties enumerate: Bytes, Packets, Drops, Overlimits plus the
// Rx/Tx-qualified variants.
type Counters struct {
	Bytes, Packets, Drops, Overlimits             uint64
	RxBytes, RxPackets, RxDrops                   uint64
	TxBytes, TxPackets, TxDrops                   uint64
}

// GetNetStat implements the "Network: GetNetStat(kind) -> map" collaborator
// call: kind selects which interface's counters to return ("" or "default"
// returns every interface).
func (m *Manager) GetNetStat(kind string) (map[string]Counters, error) {
	links, err := netlink.LinkList()
	if err != nil {
		return nil, err
	}
	out := map[string]Counters{}
	for _, l := range links {
		attrs := l.Attrs()
		if kind != "" && kind != "default" && attrs.Name != kind {
			continue
		}
		stats := attrs.Statistics
		if stats == nil {
			out[attrs.Name] = Counters{}
			continue
		}
		out[attrs.Name] = Counters{
			Bytes:      stats.RxBytes + stats.TxBytes,
			Packets:    stats.RxPackets + stats.TxPackets,
			Drops:      stats.RxDropped + stats.TxDropped,
			Overlimits: 0,
			RxBytes:    stats.RxBytes,
			RxPackets:  stats.RxPackets,
			RxDrops:    stats.RxDropped,
			TxBytes:    stats.TxBytes,
			TxPackets:  stats.TxPackets,
			TxDrops:    stats.TxDropped,
		}
	}
	return out, nil
}
