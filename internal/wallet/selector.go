package wallet

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

var selectorLog = logrus.WithField("component", "wallet.selector")

// Denominations is the fixed, ordered table of permitted Qi UTXO values,
// expressed in qit (the smallest Qi unit), per spec.md §3. Every
// adjacent pair is related by a factor of 5 or 2 (1, 5, 10, 50, ...), the same
// "currency-note" structure real cash denominations use, which is what
// makes greedy largest-first decomposition optimal (spec.md §4.6.4).
var Denominations = []uint64{
	1, 5, 10, 50, 100, 500,
	1_000, 5_000, 10_000, 50_000,
	100_000, 500_000, 1_000_000, 5_000_000,
	10_000_000, 50_000_000, 100_000_000,
}

// DenominationValue returns the integer value of denomination index i.
func DenominationValue(i int) uint64 {
	return Denominations[i]
}

// UTXO is a selector input, per spec.md §3: only Denomination
// participates in selection arithmetic, the rest is carried through to
// the caller unexamined.
type UTXO struct {
	Denomination int
	Address      [20]byte
	TxHash       [32]byte
	OutputIndex  uint32
}

// Output is a spend or change output, identified solely by denomination.
type Output struct {
	Denomination int
}

func outputsValue(outs []Output) uint64 {
	var sum uint64
	for _, o := range outs {
		sum += DenominationValue(o.Denomination)
	}
	return sum
}

// decompose greedily breaks value into the minimal multiset of
// denominations summing exactly to it, per spec.md §4.6.4. decompose(0)
// is the empty list.
func decompose(value uint64) []Output {
	var outs []Output
	remaining := value
	for i := len(Denominations) - 1; i >= 0 && remaining > 0; i-- {
		d := Denominations[i]
		for remaining >= d {
			outs = append(outs, Output{Denomination: i})
			remaining -= d
		}
	}
	return outs
}

// SelectionResult is the selector's output view, per spec.md §3.
type SelectionResult struct {
	Inputs          []UTXO
	SpendOutputs    []Output
	ChangeOutputs   []Output
	TotalInputValue uint64
	SelectedUTXOs   []UTXO
}

// Selector implements the "fewest inputs" UTXO selection strategy of
// spec.md §4.6. A Selector instance carries mutable state across a
// performSelection/increaseFee/decreaseFee session; concurrent use of
// the same instance is not supported (spec.md §5).
type Selector struct {
	mu sync.Mutex

	pool []UTXO
	used []bool // parallel to pool; true once an entry has been selected

	selected      []int // indices into pool, in selection order
	spendOutputs  []Output
	changeOutputs []Output

	target uint64
	fee    uint64
}

// NewSelector constructs a selector over the given available UTXO pool.
func NewSelector(available []UTXO) *Selector {
	pool := make([]UTXO, len(available))
	copy(pool, available)
	return &Selector{
		pool: pool,
		used: make([]bool, len(pool)),
	}
}

// descendingUnused returns pool indices not yet selected, sorted by
// denomination value descending, ties broken by original pool order
// (sort.SliceStable over the original index order achieves this).
func (s *Selector) descendingUnused() []int {
	idx := make([]int, 0, len(s.pool))
	for i, used := range s.used {
		if !used {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return DenominationValue(s.pool[idx[a]].Denomination) > DenominationValue(s.pool[idx[b]].Denomination)
	})
	return idx
}

// PerformSelection runs the greedy fewest-inputs selection of spec.md
// §4.6.1 for the given target and initial fee.
func (s *Selector) PerformSelection(target int64, fee uint64) (*SelectionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if target <= 0 {
		return nil, ErrTargetNonPositive
	}
	if len(s.pool) == 0 {
		return nil, ErrNoUTXOs
	}

	need := uint64(target) + fee
	order := s.descendingUnused()

	var sum uint64
	var selected []int
	for _, idx := range order {
		if sum >= need {
			break
		}
		selected = append(selected, idx)
		sum += DenominationValue(s.pool[idx].Denomination)
	}
	if sum < need {
		return nil, ErrInsufficientFunds
	}

	for _, idx := range selected {
		s.used[idx] = true
	}
	s.selected = selected
	s.target = uint64(target)
	s.fee = fee
	s.spendOutputs = decompose(uint64(target))
	excess := sum - uint64(target) - fee
	s.changeOutputs = decompose(excess)

	selectorLog.WithFields(logrus.Fields{"target": target, "fee": fee, "inputs": len(selected)}).Debug("selection performed")
	return s.result(), nil
}

func (s *Selector) result() *SelectionResult {
	inputs := make([]UTXO, len(s.selected))
	var total uint64
	for i, idx := range s.selected {
		inputs[i] = s.pool[idx]
		total += DenominationValue(s.pool[idx].Denomination)
	}
	return &SelectionResult{
		Inputs:          inputs,
		SpendOutputs:    append([]Output(nil), s.spendOutputs...),
		ChangeOutputs:   append([]Output(nil), s.changeOutputs...),
		TotalInputValue: total,
		SelectedUTXOs:   inputs,
	}
}

// IncreaseFee adjusts the current selection to absorb an additional
// delta in fee, preserving S2, per spec.md §4.6.2.
func (s *Selector) IncreaseFee(delta uint64) (*SelectionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	change := outputsValue(s.changeOutputs)

	if change >= delta {
		s.changeOutputs = decompose(change - delta)
		s.fee += delta
		return s.result(), nil
	}

	remaining := delta - change
	s.changeOutputs = nil

	var addedValue uint64
	var added []int
	for _, idx := range s.descendingUnused() {
		if addedValue >= remaining {
			break
		}
		added = append(added, idx)
		addedValue += DenominationValue(s.pool[idx].Denomination)
	}

	if addedValue < remaining {
		// Best-effort: absorb whatever change and newly added inputs can
		// cover, per spec.md §4.6.2's stated failure mode, and log it so
		// the partial absorption is observable.
		for _, idx := range added {
			s.used[idx] = true
		}
		s.selected = append(s.selected, added...)
		s.fee += change + addedValue
		selectorLog.WithFields(logrus.Fields{"requested": delta, "absorbed": change + addedValue}).
			Warn("increaseFee: no unused UTXO left to fully absorb requested delta")
		return s.result(), nil
	}

	for _, idx := range added {
		s.used[idx] = true
	}
	s.selected = append(s.selected, added...)
	s.fee += delta
	s.changeOutputs = decompose(addedValue - remaining)
	return s.result(), nil
}

// DecreaseFee adjusts the current selection to reduce the implied fee
// by delta, preserving S2, per spec.md §4.6.3. The caller is
// responsible for delta <= the current implied fee.
func (s *Selector) DecreaseFee(delta uint64) (*SelectionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	newFee := s.fee - delta
	need := s.target + newFee

	total := func() uint64 {
		var sum uint64
		for _, idx := range s.selected {
			sum += DenominationValue(s.pool[idx].Denomination)
		}
		return sum
	}

	// Try removing the largest removable inputs first, so long as the
	// remaining input sum still covers target + newFee.
	sort.SliceStable(s.selected, func(a, b int) bool {
		return DenominationValue(s.pool[s.selected[a]].Denomination) > DenominationValue(s.pool[s.selected[b]].Denomination)
	})

	var kept []int
	remaining := total()
	for _, idx := range s.selected {
		v := DenominationValue(s.pool[idx].Denomination)
		if remaining-v >= need {
			remaining -= v
			s.used[idx] = false
			continue
		}
		kept = append(kept, idx)
	}
	s.selected = kept

	// excess is the *full* new change total, not the incremental amount:
	// only the difference from the pre-existing change is newly freed and
	// needs appending, per spec.md §4.6.3's "add, do not replace" rule.
	// When removed inputs leave excess below the pre-existing change, the
	// change is rebuilt from excess instead.
	excess := remaining - need
	existing := outputsValue(s.changeOutputs)
	if excess >= existing {
		s.changeOutputs = append(s.changeOutputs, decompose(excess-existing)...)
	} else {
		s.changeOutputs = decompose(excess)
	}
	s.fee = newFee

	return s.result(), nil
}

// CurrentFee returns the current implied fee, impliedFee in spec.md's
// terms.
func (s *Selector) CurrentFee() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fee
}

// String renders a human-readable summary, used by the CLI's select
// subcommand.
func (r *SelectionResult) String() string {
	return fmt.Sprintf(
		"inputs=%d totalInputValue=%d spendOutputs=%d changeOutputs=%d",
		len(r.Inputs), r.TotalInputValue, len(r.SpendOutputs), len(r.ChangeOutputs),
	)
}
