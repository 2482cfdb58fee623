package engine

import (
	"github.com/JuliusMieliauskas/poly-market-maker/internal/coerce"
	"github.com/JuliusMieliauskas/poly-market-maker/internal/config"
)

// Arguments assembles the engine's command-line argument vector: nine
// flag/value pairs, fixed order, every pair always present. Fields nothing
// resolved travel as empty strings rather than being dropped, so the shape of
// the command line never varies between runs. The seven opaque fields pass
// through verbatim; the two interval fields are coerced so the engine always
// receives base-10 integer literals.
func Arguments(eng config.Engine) []string {
	return []string{
		"--private-key", eng.PrivateKey,
		"--clob-api-url", eng.ClobAPIURL,
		"--condition-id", eng.ConditionID,
		"--strategy", eng.Strategy,
		"--strategy-config", eng.StrategyConfig,
		"--funder-address", eng.FunderAddress,
		"--wallet-address", eng.WalletAddress,
		"--refresh-frequency", coerce.IntString(eng.RefreshFrequency),
		"--sync-interval", coerce.IntString(eng.SyncInterval),
	}
}
