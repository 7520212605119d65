// =============================================================================
// Prisme Transactions - G68 Writer
// =============================================================================
//
// A Writer carries the sender identity (registration site, organisation unit,
// machine number) and the number the next line will get, starting at 1.
// Every successfully serialized transaction consumes one line number. A
// failed serialization leaves the counter untouched.
//
// A Writer is not safe for concurrent use; give each output file its own.
//
// =============================================================================

package g68

import (
	"github.com/ginjaninja78/prisme-transactions/internal/field"
)

// Writer serializes G68 transactions for one sender.
type Writer struct {
	site      field.Field
	orgUnit   field.Floating
	machineNo field.Field
	lineNo    int64
}

// Option configures a Writer.
type Option func(*writerOptions)

type writerOptions struct {
	machineNo int64
}

// WithMachineNumber sets the machine number used in posting references.
// The default is 0.
func WithMachineNumber(n int64) Option {
	return func(o *writerOptions) { o.machineNo = n }
}

// NewWriter creates a writer for the given registration site and
// organisation unit.
func NewWriter(site, orgUnit int64, opts ...Option) (*Writer, error) {
	var o writerOptions
	for _, opt := range opts {
		opt(&o)
	}

	s, err := siteSpec.Int(site)
	if err != nil {
		return nil, err
	}
	ou, err := OrgUnit.Int(orgUnit)
	if err != nil {
		return nil, err
	}
	m, err := machineNoSpec.Int(o.machineNo)
	if err != nil {
		return nil, err
	}
	return &Writer{site: s, orgUnit: OrgUnit.Float(ou), machineNo: m, lineNo: 1}, nil
}

// LineNumber is the number the next serialized transaction will get.
func (w *Writer) LineNumber() int64 { return w.lineNo }

// ResetLineNumber restarts numbering at 1.
func (w *Writer) ResetLineNumber() { w.lineNo = 1 }

// SerializeTransaction renders one payment as a G68 line. The line number is
// advanced only when serialization succeeds.
func (w *Writer) SerializeTransaction(p Payment) (string, error) {
	t, err := newTransaction(w, w.lineNo, p)
	if err != nil {
		return "", err
	}
	line, err := t.Serialize()
	if err != nil {
		return "", err
	}
	w.lineNo++
	return line, nil
}

// SerializeTransactions renders payments in order, one line each. It stops
// at the first failing payment and returns its index with the error.
func (w *Writer) SerializeTransactions(payments []Payment) ([]string, int, error) {
	lines := make([]string, 0, len(payments))
	for i, p := range payments {
		line, err := w.SerializeTransaction(p)
		if err != nil {
			return lines, i, err
		}
		lines = append(lines, line)
	}
	return lines, -1, nil
}
