package e2

// CurrencyOption is one entry of the dashboard's currency selector.
// Value is the selector-internal token, Label the human-readable name
// used as the display key of a Report.
type CurrencyOption struct {
	Value string
	Label string
}

// DefaultCurrency keys single-currency accounts that expose no
// currency selector at all.
const DefaultCurrency = "DEFAULT"

type RowKind int

const (
	// RowRegistered rows carry a period and a count only.
	RowRegistered RowKind = iota
	// RowStandard rows carry period, count, signed amount and an
	// optional currency symbol.
	RowStandard
)

type Row struct {
	Kind   RowKind
	Period string
	Count  string
	// Amount is a signed decimal string with the sign already
	// resolved; empty for registered rows.
	Amount string
	// Symbol may be empty when the cell carried no recognized glyph.
	Symbol string
}

type SectionReport struct {
	// Headers are display-only, in document order.
	Headers []string
	// Rows preserve document order, periods already validated.
	Rows []Row
	// Currency is the section-level default symbol, derived from the
	// commission text of the surrounding currency context.
	Currency string
}

type PeriodPair struct {
	ThisPeriod string
	LastPeriod string
}

type Commissions struct {
	ThisPeriod string
	LastPeriod string
	// Currency is the leading glyph of ThisPeriod when recognized.
	Currency string
}

// Snapshot is the fully extracted data for one account under one
// currency context. Immutable after creation.
type Snapshot struct {
	ActivePlayers PeriodPair
	Commissions   Commissions
	Withdrawable  string
	Sections      map[string]SectionReport
}

// Report holds all snapshots of one fetch operation, keyed by currency
// label. Currencies preserves the dashboard's enumeration order, which
// pagination cycles over. Skipped records currencies whose context
// switch failed, so callers can tell a partial report from a full one.
type Report struct {
	Currencies []string
	Snapshots  map[string]Snapshot
	Skipped    []string
}
