// Package logo resolves company logo URLs for tickers through the
// Brandfetch CDN.
package logo

import (
	"strings"

	"stockwatch/internal/domain/entity"
	"stockwatch/pkg/config"
)

// tickerDomains maps known tickers to the company's primary web domain.
// Logos are served straight from the CDN keyed by domain, so unknown
// tickers simply have no logo.
var tickerDomains = map[entity.Ticker]string{
	"AAPL":  "apple.com",
	"MSFT":  "microsoft.com",
	"GOOGL": "google.com",
	"GOOG":  "google.com",
	"AMZN":  "amazon.com",
	"META":  "meta.com",
	"TSLA":  "tesla.com",
	"NVDA":  "nvidia.com",
	"NFLX":  "netflix.com",
	"AMD":   "amd.com",
	"INTC":  "intel.com",
	"CRM":   "salesforce.com",
	"ORCL":  "oracle.com",
	"IBM":   "ibm.com",
	"ADBE":  "adobe.com",
	"PYPL":  "paypal.com",
	"DIS":   "disney.com",
	"UBER":  "uber.com",
	"LYFT":  "lyft.com",
	"ABNB":  "airbnb.com",
	"COIN":  "coinbase.com",
	"SQ":    "squareup.com",
	"SHOP":  "shopify.com",
	"SPOT":  "spotify.com",
	"SNAP":  "snap.com",
	"PINS":  "pinterest.com",
	"TWLO":  "twilio.com",
	"ZM":    "zoom.us",
	"DOCU":  "docusign.com",
	"PLTR":  "palantir.com",
	"SNOW":  "snowflake.com",
	"NET":   "cloudflare.com",
	"DDOG":  "datadoghq.com",
	"MDB":   "mongodb.com",
	"CRWD":  "crowdstrike.com",
	"OKTA":  "okta.com",
	"TEAM":  "atlassian.com",
	"JPM":   "jpmorganchase.com",
	"BAC":   "bankofamerica.com",
	"WFC":   "wellsfargo.com",
	"GS":    "goldmansachs.com",
	"MS":    "morganstanley.com",
	"V":     "visa.com",
	"MA":    "mastercard.com",
	"AXP":   "americanexpress.com",
	"KO":    "coca-cola.com",
	"PEP":   "pepsico.com",
	"MCD":   "mcdonalds.com",
	"SBUX":  "starbucks.com",
	"NKE":   "nike.com",
	"WMT":   "walmart.com",
	"TGT":   "target.com",
	"COST":  "costco.com",
	"HD":    "homedepot.com",
	"LOW":   "lowes.com",
	"BA":    "boeing.com",
	"GE":    "ge.com",
	"F":     "ford.com",
	"GM":    "gm.com",
	"XOM":   "exxonmobil.com",
	"CVX":   "chevron.com",
	"JNJ":   "jnj.com",
	"PFE":   "pfizer.com",
	"MRNA":  "modernatx.com",
	"UNH":   "unitedhealthgroup.com",
	"T":     "att.com",
	"VZ":    "verizon.com",
	"TMUS":  "t-mobile.com",
	"CSCO":  "cisco.com",
	"QCOM":  "qualcomm.com",
	"TXN":   "ti.com",
	"AVGO":  "broadcom.com",
	"MU":    "micron.com",
	"TSM":   "tsmc.com",
	"BABA":  "alibaba.com",
	"JD":    "jd.com",
	"RBLX":  "roblox.com",
	"RIVN":  "rivian.com",
	"LCID":  "lucidmotors.com",
	"HOOD":  "robinhood.com",
	"SOFI":  "sofi.com",
	"DKNG":  "draftkings.com",
	"RDDT":  "redditinc.com",
	"GME":   "gamestop.com",
	"AMC":   "amctheatres.com",
	"BRK.B": "berkshirehathaway.com",
	"BRK.A": "berkshirehathaway.com",
}

// Provider builds logo URLs for tickers. The zero value is not usable;
// construct with NewProvider.
type Provider struct {
	cdnBase   string
	clientID  string
	overrides map[entity.Ticker]string
}

// NewProvider reads the CDN base and client key from the environment.
// Overrides extend or replace entries in the built-in domain table.
func NewProvider(overrides map[string]string) *Provider {
	p := &Provider{
		cdnBase:  config.GetEnvString("LOGO_CDN_BASE", "https://cdn.brandfetch.io"),
		clientID: config.GetEnvString("LOGO_CDN_CLIENT_ID", ""),
	}
	if len(overrides) > 0 {
		p.overrides = make(map[entity.Ticker]string, len(overrides))
		for t, d := range overrides {
			p.overrides[entity.Ticker(strings.ToUpper(t))] = d
		}
	}
	return p
}

func (p *Provider) domain(ticker entity.Ticker) (string, bool) {
	if d, ok := p.overrides[ticker]; ok {
		return d, true
	}
	d, ok := tickerDomains[ticker]
	return d, ok
}

// LogoURL returns the CDN URL for the ticker's company logo, or empty when
// the ticker has no known domain.
func (p *Provider) LogoURL(ticker entity.Ticker) string {
	domain, ok := p.domain(ticker)
	if !ok {
		return ""
	}

	var b strings.Builder
	b.WriteString(p.cdnBase)
	b.WriteString("/")
	b.WriteString(domain)
	b.WriteString("/w/100/h/100")
	if p.clientID != "" {
		b.WriteString("?c=")
		b.WriteString(p.clientID)
	}
	return b.String()
}

// Known reports whether a logo domain exists for the ticker.
func (p *Provider) Known(ticker entity.Ticker) bool {
	_, ok := p.domain(ticker)
	return ok
}
