// Command staticlint запускает статические проверки проекта.
//
// В набор входят анализаторы go/analysis/passes и все проверки SA из
// staticcheck. К ним добавлены S1000 (simple), U1000 (unused), bodyclose
// для HTTP-клиента TinyURL и noexit, запрещающий os.Exit в main.
//
//	go run ./cmd/staticlint ./...
package main

import (
	"strings"

	"github.com/timakin/bodyclose/passes/bodyclose"
	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/nilness"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shadow"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"honnef.co/go/tools/simple"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/unused"

	"github.com/Totarae/tinylink/cmd/staticlint/noexit"
)

// simpleChecks перечисляет подключаемые проверки из класса S.
var simpleChecks = map[string]bool{
	"S1000": true,
}

func analyzers() []*analysis.Analyzer {
	list := []*analysis.Analyzer{
		errorsas.Analyzer,
		httpresponse.Analyzer,
		lostcancel.Analyzer,
		nilness.Analyzer,
		printf.Analyzer,
		shadow.Analyzer,
		structtag.Analyzer,
		bodyclose.Analyzer,
		noexit.Analyzer,
	}
	for _, a := range staticcheck.Analyzers {
		if strings.HasPrefix(a.Analyzer.Name, "SA") {
			list = append(list, a.Analyzer)
		}
	}
	for _, a := range simple.Analyzers {
		if simpleChecks[a.Analyzer.Name] {
			list = append(list, a.Analyzer)
		}
	}
	// U1000: неиспользуемый код
	return append(list, unused.Analyzer.Analyzer)
}

func main() {
	multichecker.Main(analyzers()...)
}
