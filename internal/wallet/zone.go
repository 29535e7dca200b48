package wallet

import "fmt"

// Zone is one of the fixed shards of the Quai/Qi network. The zero value
// is not a valid zone; use the named constants below.
type Zone uint8

const (
	Cyprus1 Zone = iota + 1
	Cyprus2
	Cyprus3
	Paxos1
	Paxos2
	Paxos3
	Hydra1
	Hydra2
	Hydra3
)

var zoneNames = map[Zone]string{
	Cyprus1: "Cyprus1",
	Cyprus2: "Cyprus2",
	Cyprus3: "Cyprus3",
	Paxos1:  "Paxos1",
	Paxos2:  "Paxos2",
	Paxos3:  "Paxos3",
	Hydra1:  "Hydra1",
	Hydra2:  "Hydra2",
	Hydra3:  "Hydra3",
}

func (z Zone) String() string {
	if name, ok := zoneNames[z]; ok {
		return name
	}
	return fmt.Sprintf("Zone(%d)", uint8(z))
}

// AllZones lists the full finite zone set, in a fixed declaration order.
func AllZones() []Zone {
	return []Zone{Cyprus1, Cyprus2, Cyprus3, Paxos1, Paxos2, Paxos3, Hydra1, Hydra2, Hydra3}
}

// region/subZone pairs, indexed 0..2, forming the 3x3 Quai shard grid.
var regionZones = [3][3]Zone{
	{Cyprus1, Cyprus2, Cyprus3},
	{Paxos1, Paxos2, Paxos3},
	{Hydra1, Hydra2, Hydra3},
}

// zoneByte returns the leading-byte bit pattern (region in bits 7-5,
// sub-zone in bits 4-3, ledger bit left as 0) that addresses in zone z
// carry, per the encoding this package's zoneOf inverts.
func zoneByte(z Zone) (byte, bool) {
	for region := byte(0); region < 3; region++ {
		for sub := byte(0); sub < 3; sub++ {
			if regionZones[region][sub] == z {
				return (region << 5) | (sub << 3), true
			}
		}
	}
	return 0, false
}

// CoinType distinguishes the two ledgers this SDK addresses.
type CoinType uint32

const (
	// CoinTypeQuai is the account-based ledger (SLIP-44-style, unused
	// value reserved here to mirror spec.md's coinType 994).
	CoinTypeQuai CoinType = 994
	// CoinTypeQi is the UTXO-based ledger this wallet core targets.
	CoinTypeQi CoinType = 969
)

// zoneOf inspects the leading byte of an address and returns the zone it
// belongs to, or ok=false if the byte pattern is not a valid zone.
//
// Encoding: bits 7-5 of address[0] select the region (Cyprus/Paxos/Hydra,
// values 0-2), bits 4-3 select the sub-zone within that region (values
// 0-2, corresponding to the "1"/"2"/"3" suffix). Any other value in
// either field is zone-invalid.
func zoneOf(address [20]byte) (Zone, bool) {
	b := address[0]
	region := b >> 5
	subZone := (b >> 3) & 0x3
	if region > 2 || subZone > 2 {
		return 0, false
	}
	return regionZones[region][subZone], true
}

// ZoneOf is the exported, total form of zoneOf for an address given as a
// 20-byte slice (shorter/longer slices are never valid).
func ZoneOf(address []byte) (Zone, bool) {
	if len(address) != 20 {
		return 0, false
	}
	var a [20]byte
	copy(a[:], address)
	return zoneOf(a)
}

// isQiAddress reports whether the address belongs to the Qi (UTXO)
// ledger, encoded in the low bit of the first address byte.
func isQiAddress(address [20]byte) bool {
	return address[0]&0x01 == 1
}

// IsQiAddress is the exported, slice-based form of isQiAddress.
func IsQiAddress(address []byte) bool {
	if len(address) != 20 {
		return false
	}
	var a [20]byte
	copy(a[:], address)
	return isQiAddress(a)
}

// IsValidAddressForZone returns true iff the address belongs to zone
// AND its ledger matches coinType (Qi for 969, Quai otherwise).
func IsValidAddressForZone(coinType CoinType, address [20]byte, zone Zone) bool {
	z, ok := zoneOf(address)
	if !ok || z != zone {
		return false
	}
	return isQiAddress(address) == (coinType == CoinTypeQi)
}
