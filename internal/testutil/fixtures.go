// internal/testutil/fixtures.go
package testutil

import "reconflow/internal/core/domain"

// Salidas de ejemplo de cada herramienta, tal como las escriben con -o.
const (
	FixtureSubfinder = "a.example.com\nb.example.com\n"
	FixtureDnsx      = "93.184.216.34\n93.184.216.35\n"
	FixtureNaabu     = "93.184.216.34:443\n93.184.216.35:8080\n"
	FixtureHttpx     = "https://a.example.com [200] [Home]\nhttp://b.example.com:8080 [302] [Login]\n"
	FixtureKatana    = "https://a.example.com/login\nhttps://a.example.com/api/v1/users\n\n"
)

// FixtureFullRun salidas para un pipeline que llega a DONE.
func FixtureFullRun() map[domain.Stage]string {
	return map[domain.Stage]string{
		domain.StageEnumerate: FixtureSubfinder,
		domain.StageResolve:   FixtureDnsx,
		domain.StageScan:      FixtureNaabu,
		domain.StageProbe:     FixtureHttpx,
		domain.StageCrawl:     FixtureKatana,
	}
}

// FixtureFullRunURLs URLs esperadas de FixtureFullRun, ordenadas.
var FixtureFullRunURLs = []string{
	"http://b.example.com:8080",
	"https://a.example.com",
	"https://a.example.com/api/v1/users",
	"https://a.example.com/login",
}
