package advisory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// osvTestServer answers querybatch with the configured IDs per query and
// serves canned advisory documents, returning 500 for unknown IDs
func osvTestServer(t *testing.T, idsPerQuery [][]string, advisories map[string]string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/querybatch", func(w http.ResponseWriter, r *http.Request) {
		type vulnRef struct {
			ID string `json:"id"`
		}
		type queryResult struct {
			Vulns []vulnRef `json:"vulns"`
		}

		results := make([]queryResult, 0, len(idsPerQuery))
		for _, ids := range idsPerQuery {
			var refs []vulnRef
			for _, id := range ids {
				refs = append(refs, vulnRef{ID: id})
			}
			results = append(results, queryResult{Vulns: refs})
		}

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(map[string]interface{}{"results": results}))
	})
	mux.HandleFunc("/vulns/", func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Path[len("/vulns/"):]
		doc, ok := advisories[id]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testOSVSource(server *httptest.Server) *OSVSource {
	return &OSVSource{
		HTTPClient: server.Client(),
		BaseURL:    server.URL,
		Logger:     zap.NewNop().Sugar(),
	}
}

func TestBatchQuerySkipsAdvisoryThatFailsToHydrate(t *testing.T) {
	good := `{
		"id": "GHSA-GOOD",
		"summary": "prototype pollution",
		"affected": [{
			"package": {"ecosystem": "npm", "name": "left-pad", "purl": "pkg:npm/left-pad"},
			"versions": ["1.3.0"]
		}]
	}`

	server := osvTestServer(t,
		[][]string{{"GHSA-GOOD", "GHSA-BAD"}},
		map[string]string{"GHSA-GOOD": good},
	)

	source := testOSVSource(server)
	results, err := source.BatchQuery(context.Background(), []string{"pkg:npm/left-pad@1.3.0"})
	require.NoError(t, err)

	// The failed hydration is dropped, the healthy advisory survives
	found := results["pkg:npm/left-pad@1.3.0"]
	require.Len(t, found, 1)
	assert.Equal(t, "GHSA-GOOD", found[0].ID)
	assert.Equal(t, "prototype pollution", found[0].Summary)
}

func TestBatchQueryFiltersVersionsOutsideAffectedRanges(t *testing.T) {
	advisory := `{
		"id": "GHSA-RANGE",
		"affected": [{
			"package": {"ecosystem": "npm", "name": "lodash", "purl": "pkg:npm/lodash"},
			"ranges": [{
				"type": "SEMVER",
				"events": [{"introduced": "0"}, {"fixed": "4.17.21"}]
			}]
		}]
	}`

	server := osvTestServer(t,
		[][]string{{"GHSA-RANGE"}, {"GHSA-RANGE"}},
		map[string]string{"GHSA-RANGE": advisory},
	)

	source := testOSVSource(server)
	results, err := source.BatchQuery(context.Background(),
		[]string{"pkg:npm/lodash@4.17.20", "pkg:npm/lodash@4.17.21"})
	require.NoError(t, err)

	// The pre-fix version matches, the fixed version is validated out
	assert.Len(t, results["pkg:npm/lodash@4.17.20"], 1)
	assert.Empty(t, results["pkg:npm/lodash@4.17.21"])
}

func TestBatchQueryKeepsAdvisoryWithoutMatchingPackageEntry(t *testing.T) {
	// The advisory only lists a different package, so the version check
	// cannot run and the server-side match stands
	advisory := `{
		"id": "GHSA-OTHER",
		"affected": [{
			"package": {"ecosystem": "npm", "name": "minimist", "purl": "pkg:npm/minimist"},
			"versions": ["0.0.8"]
		}]
	}`

	server := osvTestServer(t,
		[][]string{{"GHSA-OTHER"}},
		map[string]string{"GHSA-OTHER": advisory},
	)

	source := testOSVSource(server)
	results, err := source.BatchQuery(context.Background(), []string{"pkg:npm/mkdirp@0.5.0"})
	require.NoError(t, err)

	assert.Len(t, results["pkg:npm/mkdirp@0.5.0"], 1)
}

func TestBatchQueryEmptyInput(t *testing.T) {
	source := &OSVSource{Logger: zap.NewNop().Sugar()}

	results, err := source.BatchQuery(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
