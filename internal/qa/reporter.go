package qa

// Reporter is the minimal contract for emitting warnings from checks.
// Implementations: SetReporter (reduces into a Set), NopReporter,
// MultiReporter (fan-out).
type Reporter interface {
	Report(w *Warning)
}

// ReportBuilder accumulates warning details before emitting to a Reporter.
type ReportBuilder struct {
	reporter Reporter
	typ      string
	bucket   string
	sev      Severity
	count    int
	props    map[string]any
	emitted  bool
}

// NewReportBuilder starts a warning of the given type with count 1.
func NewReportBuilder(r Reporter, sev Severity, typ string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		typ:      typ,
		sev:      sev,
		count:    1,
	}
}

// ReportInfo is a shortcut for SevInfo warnings.
func ReportInfo(r Reporter, typ string) *ReportBuilder {
	return NewReportBuilder(r, SevInfo, typ)
}

// ReportWarning is a shortcut for SevWarning warnings.
func ReportWarning(r Reporter, typ string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, typ)
}

// ReportImportant is a shortcut for SevImportant warnings.
func ReportImportant(r Reporter, typ string) *ReportBuilder {
	return NewReportBuilder(r, SevImportant, typ)
}

// ReportCritical is a shortcut for SevCritical warnings.
func ReportCritical(r Reporter, typ string) *ReportBuilder {
	return NewReportBuilder(r, SevCritical, typ)
}

// WithBucket sets the bucket id.
func (b *ReportBuilder) WithBucket(bucket string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.bucket = bucket
	return b
}

// WithCount sets the number of occurrences.
func (b *ReportBuilder) WithCount(n int) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.count = n
	return b
}

// WithProperty attaches a display property; later values win.
func (b *ReportBuilder) WithProperty(key string, value any) *ReportBuilder {
	if b == nil {
		return nil
	}
	if b.props == nil {
		b.props = make(map[string]any)
	}
	b.props[key] = value
	return b
}

// Warning builds the warning without emitting it.
func (b *ReportBuilder) Warning() *Warning {
	return NewWithProperties(b.typ, b.bucket, b.sev, b.count, b.props)
}

// Emit sends the warning to the underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.Warning())
	}
	b.emitted = true
}

// SetReporter reduces reported warnings into Set. Warnings rejected because
// the set is full are counted in Dropped.
type SetReporter struct {
	Set     *Set
	Dropped int
}

func (r *SetReporter) Report(w *Warning) {
	if r == nil || r.Set == nil {
		return
	}
	if !r.Set.Add(w) {
		r.Dropped++
	}
}

// NopReporter discards everything.
type NopReporter struct{}

func (NopReporter) Report(*Warning) {}

// MultiReporter forwards each warning to every reporter in order.
type MultiReporter []Reporter

func (m MultiReporter) Report(w *Warning) {
	for _, r := range m {
		if r != nil {
			r.Report(w)
		}
	}
}
