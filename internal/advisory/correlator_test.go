package advisory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ortelius/vexmgt-backend/internal/sbom"
	"github.com/ortelius/vexmgt-backend/model"
)

type fakeSource struct {
	findings map[string][]model.Vulnerability
	err      error
	calls    int
}

func (f *fakeSource) BatchQuery(_ context.Context, purls []string) (map[string][]model.Vulnerability, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := map[string][]model.Vulnerability{}
	for _, purl := range purls {
		if vulns, ok := f.findings[purl]; ok {
			out[purl] = vulns
		}
	}
	return out, nil
}

type fakeVulnRepo struct {
	saved map[string]*model.Vulnerability
	saves int
}

func newFakeVulnRepo() *fakeVulnRepo {
	return &fakeVulnRepo{saved: map[string]*model.Vulnerability{}}
}

func (f *fakeVulnRepo) FindByID(_ context.Context, id string) (*model.Vulnerability, error) {
	if v, ok := f.saved[id]; ok {
		copied := *v
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeVulnRepo) Save(_ context.Context, vuln *model.Vulnerability) error {
	f.saves++
	copied := *vuln
	if copied.Key == "" {
		copied.Key = "key-" + vuln.ID
	}
	f.saved[vuln.ID] = &copied
	return nil
}

type fakeEnsurer struct {
	triples map[string]string
	next    int
}

func newFakeEnsurer() *fakeEnsurer {
	return &fakeEnsurer{triples: map[string]string{}}
}

func (f *fakeEnsurer) EnsureStatement(_ context.Context, product *model.Product, vulnID, componentPurl string, _ model.Severity) (string, bool, error) {
	triple := product.Key + "|" + vulnID + "|" + componentPurl
	if key, ok := f.triples[triple]; ok {
		return key, false, nil
	}
	f.next++
	key := "stmt-" + vulnID
	f.triples[triple] = key
	return key, true, nil
}

type fakePublisher struct {
	events [][]string
}

func (f *fakePublisher) PublishStatementsChanged(_ context.Context, _, _, _ string, statementKeys []string) error {
	f.events = append(f.events, statementKeys)
	return nil
}

func testProduct() *model.Product {
	product := model.NewProduct("checkout", "acme")
	product.Key = "prod-1"
	return product
}

func vulnWithSeverity(id string, severity model.Severity) model.Vulnerability {
	vuln := model.NewVulnerability(id)
	vuln.Severity = severity
	return *vuln
}

func TestCorrelateCreatesStatementsAndPublishesOnce(t *testing.T) {
	source := &fakeSource{findings: map[string][]model.Vulnerability{
		"pkg:npm/lodash@4.17.20": {
			vulnWithSeverity("CVE-2024-0001", model.NamedSeverity("HIGH")),
			vulnWithSeverity("CVE-2024-0002", model.NamedSeverity("LOW")),
		},
	}}
	vulns := newFakeVulnRepo()
	ensurer := newFakeEnsurer()
	publisher := &fakePublisher{}

	correlator := NewCorrelator(source, vulns, ensurer, publisher, zap.NewNop().Sugar())

	components := []sbom.Component{
		{Name: "lodash", Purl: "pkg:npm/lodash@4.17.20"},
		{Name: "left-pad", Purl: "pkg:npm/left-pad@1.3.0"},
	}

	result, err := correlator.Correlate(context.Background(), testProduct(), components)
	require.NoError(t, err)

	assert.Len(t, result.Findings["pkg:npm/lodash@4.17.20"], 2)
	assert.Equal(t, 2, result.StatementsCreated)
	assert.Len(t, vulns.saved, 2)

	require.Len(t, publisher.events, 1)
	assert.Len(t, publisher.events[0], 2)
}

func TestCorrelateIsIdempotent(t *testing.T) {
	source := &fakeSource{findings: map[string][]model.Vulnerability{
		"pkg:npm/lodash@4.17.20": {
			vulnWithSeverity("CVE-2024-0001", model.NamedSeverity("HIGH")),
		},
	}}
	vulns := newFakeVulnRepo()
	ensurer := newFakeEnsurer()
	publisher := &fakePublisher{}

	correlator := NewCorrelator(source, vulns, ensurer, publisher, zap.NewNop().Sugar())
	components := []sbom.Component{{Name: "lodash", Purl: "pkg:npm/lodash@4.17.20"}}

	_, err := correlator.Correlate(context.Background(), testProduct(), components)
	require.NoError(t, err)
	firstSaves := vulns.saves

	result, err := correlator.Correlate(context.Background(), testProduct(), components)
	require.NoError(t, err)

	// Unchanged advisory content writes nothing and creates no statements
	assert.Equal(t, firstSaves, vulns.saves)
	assert.Equal(t, 0, result.StatementsCreated)
	assert.Len(t, publisher.events, 1)
}

func TestCorrelateRewritesChangedAdvisories(t *testing.T) {
	source := &fakeSource{findings: map[string][]model.Vulnerability{
		"pkg:npm/lodash@4.17.20": {
			vulnWithSeverity("CVE-2024-0001", model.NamedSeverity("HIGH")),
		},
	}}
	vulns := newFakeVulnRepo()
	correlator := NewCorrelator(source, vulns, newFakeEnsurer(), &fakePublisher{}, zap.NewNop().Sugar())
	components := []sbom.Component{{Name: "lodash", Purl: "pkg:npm/lodash@4.17.20"}}

	_, err := correlator.Correlate(context.Background(), testProduct(), components)
	require.NoError(t, err)

	// The advisory is re-published with a higher severity
	source.findings["pkg:npm/lodash@4.17.20"] = []model.Vulnerability{
		vulnWithSeverity("CVE-2024-0001", model.NamedSeverity("CRITICAL")),
	}

	_, err = correlator.Correlate(context.Background(), testProduct(), components)
	require.NoError(t, err)

	assert.Equal(t, 2, vulns.saves)
	assert.Equal(t, "CRITICAL", vulns.saved["CVE-2024-0001"].Severity.Tier())
	// The rewritten record keeps its storage key
	assert.Equal(t, "key-CVE-2024-0001", vulns.saved["CVE-2024-0001"].Key)
}

func TestCorrelateSourceOutageIsNotFatal(t *testing.T) {
	source := &fakeSource{err: errors.New("osv unavailable")}
	correlator := NewCorrelator(source, newFakeVulnRepo(), newFakeEnsurer(), &fakePublisher{}, zap.NewNop().Sugar())

	result, err := correlator.Correlate(context.Background(), testProduct(),
		[]sbom.Component{{Name: "lodash", Purl: "pkg:npm/lodash@4.17.20"}})
	require.NoError(t, err)

	assert.Empty(t, result.Findings)
	assert.Equal(t, 0, result.StatementsCreated)
}

func TestDedupePurls(t *testing.T) {
	components := []sbom.Component{
		{Name: "lodash", Purl: "pkg:npm/lodash@4.17.20"},
		{Name: "lodash-dup", Purl: "pkg:npm/lodash@4.17.20"},
		{Name: "no-purl"},
		{Name: "axios", Purl: "pkg:npm/axios@1.6.0"},
	}

	assert.Equal(t, []string{"pkg:npm/lodash@4.17.20", "pkg:npm/axios@1.6.0"}, dedupePurls(components))
}
