package advisory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/osv-scanner/pkg/models"
	"go.uber.org/zap"

	"github.com/ortelius/vexmgt-backend/model"
	"github.com/ortelius/vexmgt-backend/util"
)

const defaultOSVBaseURL = "https://api.osv.dev/v1"

// OSVSource implements Source against the OSV.dev HTTP API. One
// querybatch call resolves the advisory IDs per purl; each distinct ID
// is then hydrated once with a GET.
type OSVSource struct {
	HTTPClient *http.Client
	BaseURL    string
	Logger     *zap.SugaredLogger
}

// NewOSVSource creates an OSV source with default settings
func NewOSVSource(logger *zap.SugaredLogger) *OSVSource {
	return &OSVSource{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		BaseURL:    util.GetEnvDefault("OSV_API_URL", defaultOSVBaseURL),
		Logger:     logger,
	}
}

type osvQuery struct {
	Package osvPackage `json:"package"`
	Version string     `json:"version,omitempty"`
}

type osvPackage struct {
	Purl string `json:"purl"`
}

type osvBatchResponse struct {
	Results []struct {
		Vulns []struct {
			ID string `json:"id"`
		} `json:"vulns"`
	} `json:"results"`
}

// BatchQuery resolves advisories for the given purls in one querybatch
// round trip plus one hydration call per distinct advisory ID
func (c *OSVSource) BatchQuery(ctx context.Context, purls []string) (map[string][]model.Vulnerability, error) {
	if len(purls) == 0 {
		return map[string][]model.Vulnerability{}, nil
	}

	queries := make([]osvQuery, 0, len(purls))
	versions := make([]string, 0, len(purls))
	for _, purl := range purls {
		version := ""
		if parsed, err := util.ParsePURL(purl); err == nil {
			version = parsed.Version
		}
		base, err := util.GetBasePURL(purl)
		if err != nil {
			base = purl
		}
		queries = append(queries, osvQuery{Package: osvPackage{Purl: base}, Version: version})
		versions = append(versions, version)
	}

	body, err := json.Marshal(map[string]interface{}{"queries": queries})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal querybatch request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/querybatch", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OSV querybatch request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OSV querybatch returned status: %s", resp.Status)
	}

	var batchResp osvBatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&batchResp); err != nil {
		return nil, fmt.Errorf("failed to decode OSV querybatch response: %w", err)
	}

	if len(batchResp.Results) != len(purls) {
		return nil, fmt.Errorf("OSV querybatch returned %d results for %d queries", len(batchResp.Results), len(purls))
	}

	// Hydrate each distinct advisory once, then fan the records out to
	// the purls that referenced them. A single failed or malformed
	// advisory is logged and skipped, never failing the rest of the
	// batch; a failure is cached as nil so it is not retried per purl.
	hydrated := map[string]*models.Vulnerability{}
	results := map[string][]model.Vulnerability{}

	for i, res := range batchResp.Results {
		for _, v := range res.Vulns {
			osv, ok := hydrated[v.ID]
			if !ok {
				osv, err = c.getVuln(ctx, v.ID)
				if err != nil {
					c.Logger.Warnw("Skipping advisory that failed to hydrate",
						"advisory", v.ID, "error", err)
					osv = nil
				}
				hydrated[v.ID] = osv
			}
			if osv == nil {
				continue
			}
			if !affectsComponent(osv, purls[i], versions[i]) {
				continue
			}
			results[purls[i]] = append(results[purls[i]], convertOSV(osv, versions[i]))
		}
	}

	return results, nil
}

// affectsComponent validates the server-side match with the
// ecosystem-specific version parsers. Entries are narrowed to the
// component's package first; when the advisory carries no entry for the
// package the server-side match stands.
func affectsComponent(osv *models.Vulnerability, purl, version string) bool {
	if version == "" {
		return true
	}

	base, err := util.GetBasePURL(purl)
	if err != nil {
		return true
	}

	var forPackage []models.Affected
	for _, affected := range osv.Affected {
		entryBase := ""
		if affected.Package.Purl != "" {
			entryBase, err = util.GetBasePURL(affected.Package.Purl)
			if err != nil {
				entryBase = ""
			}
		}
		if entryBase == "" {
			entryBase = util.GetBasePURLFromComponents(
				string(affected.Package.Ecosystem), "", affected.Package.Name)
		}
		if entryBase == base {
			forPackage = append(forPackage, affected)
		}
	}

	if len(forPackage) == 0 {
		return true
	}
	return util.IsVersionAffectedAny(version, forPackage)
}

func (c *OSVSource) getVuln(ctx context.Context, id string) (*models.Vulnerability, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/vulns/"+id, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OSV returned status: %s", resp.Status)
	}

	var osv models.Vulnerability
	if err := json.NewDecoder(resp.Body).Decode(&osv); err != nil {
		return nil, err
	}
	return &osv, nil
}

// convertOSV maps an OSV record to the internal vulnerability model,
// capturing severity without coercion and deriving the fix state for the
// component version actually in use
func convertOSV(osv *models.Vulnerability, componentVersion string) model.Vulnerability {
	vuln := model.NewVulnerability(osv.ID)
	vuln.Summary = osv.Summary
	vuln.Details = osv.Details
	vuln.Aliases = osv.Aliases
	vuln.Modified = osv.Modified

	for _, ref := range osv.References {
		vuln.References = append(vuln.References, ref.URL)
	}

	vuln.Severity = severityFromOSV(osv)
	if vuln.Severity.Kind == model.SeverityKindVector {
		// Display enrichment only; scoring uses the severity union
		vuln.CvssBaseScore = util.CalculateCVSSScore(vuln.Severity.Vector)
		vuln.SeverityRating = util.GetSeverityRating(vuln.CvssBaseScore)
	}

	if componentVersion != "" {
		fixed := util.ExtractApplicableFixedVersion(componentVersion, osv.Affected)
		if len(fixed) > 0 {
			vuln.HasFix = true
			vuln.FixedIn = &fixed[0]
		}
	}

	return *vuln
}

// severityFromOSV picks the best available severity representation: a
// CVSS vector when the advisory carries one, else the database_specific
// named tier, else unknown
func severityFromOSV(osv *models.Vulnerability) model.Severity {
	for _, s := range osv.Severity {
		if s.Score == "" {
			continue
		}
		switch string(s.Type) {
		case "CVSS_V4", "CVSS_V3", "CVSS_V2":
			return model.VectorSeverity(s.Score)
		}
	}

	if osv.DatabaseSpecific != nil {
		if tier, ok := osv.DatabaseSpecific["severity"].(string); ok && tier != "" {
			return model.NamedSeverity(tier)
		}
	}

	return model.UnknownSeverity()
}
