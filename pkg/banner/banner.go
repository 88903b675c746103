package banner

import (
	"fmt"

	"capsuledb/pkg/config"
)

const banner = `
 ██████╗ █████╗ ██████╗ ███████╗██╗   ██╗██╗     ███████╗    ██████╗ ██████╗
██╔════╝██╔══██╗██╔══██╗██╔════╝██║   ██║██║     ██╔════╝    ██╔══██╗██╔══██╗
██║     ███████║██████╔╝███████╗██║   ██║██║     █████╗      ██║  ██║██████╔╝
██║     ██╔══██║██╔═══╝ ╚════██║██║   ██║██║     ██╔══╝      ██║  ██║██╔══██╗
╚██████╗██║  ██║██║     ███████║╚██████╔╝███████╗███████╗    ██████╔╝██████╔╝
 ╚═════╝╚═╝  ╚═╝╚═╝     ╚══════╝ ╚═════╝ ╚══════╝╚══════╝    ╚═════╝ ╚═════╝
`

// Print writes the startup banner and a short operator summary to stdout.
func Print(cfg *config.Config, addr, dbPath, sources, version string) {
	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:   %s\n", addr)
	fmt.Printf("DB Path:  %s\n", dbPath)
	if version != "" {
		fmt.Printf("Version:  %s\n", version)
	}
	if sources != "" {
		fmt.Printf("Config sources: %s\n", sources)
	}
	fmt.Println("\n== Endpoints ==================================================")
	fmt.Println("POST /v1/capsules - Create a time capsule (JSON: creator, unlock_date, content, access_control, metadata)")
	fmt.Println("GET  /v1/capsules/{id} - Fetch a capsule (403 while sealed or restricted)")
	fmt.Println("GET  /v1/capsules/public - List unlocked public capsules")
	fmt.Println("GET  /v1/capsules/nearby?lat=<f>&lon=<f>&radius_km=<f> - Geo-radius search")
	fmt.Println("\n== Examples ===================================================")
	fmt.Printf("curl -X POST 'http://localhost%s/v1/capsules' -d '{\"unlock_date\": 0, \"content\": {\"type\": \"text\", \"text\": \"hello future\"}, \"access_control\": {\"type\": \"public\"}}'\n", addr)
	fmt.Printf("curl 'http://localhost%s/v1/capsules/public'\n", addr)

	fmt.Println("\n== Production? =================================================")
	be, fe, ak := 0, 0, 0
	if cfg != nil {
		be = len(cfg.Security.APIKeys.Backend)
		fe = len(cfg.Security.APIKeys.Frontend)
		ak = len(cfg.Security.APIKeys.Admin)
	}
	if be > 0 {
		fmt.Printf("- Backend API keys: OK (%d)\n", be)
	} else {
		fmt.Println("- Backend API keys: MISSING (required for backend services)")
	}
	if fe > 0 {
		fmt.Printf("- Frontend API keys: OK (%d)\n", fe)
	} else {
		fmt.Println("- Frontend API keys: MISSING (required for client access)")
	}
	if ak > 0 {
		fmt.Printf("- Admin API keys: OK (%d)\n", ak)
	} else {
		fmt.Println("- Admin API keys: MISSING (required for admin tooling)")
	}

	tlsOK := cfg != nil && cfg.Server.TLS.CertFile != "" && cfg.Server.TLS.KeyFile != ""
	if tlsOK {
		fmt.Println("- TLS: configured")
	} else {
		fmt.Println("- TLS: unconfigured")
	}

	if cfg != nil && cfg.Validation.Strict {
		fmt.Println("- Validation: strict")
	} else {
		fmt.Println("- Validation: permissive (structural checks only)")
	}

	if cfg != nil && cfg.Stats.Enabled {
		cron := cfg.Stats.Cron
		if cron == "" {
			cron = "*/5 * * * *"
		}
		fmt.Printf("- Stats sweeper: enabled (cron=%s)\n", cron)
	} else {
		fmt.Println("- Stats sweeper: disabled")
	}

	fmt.Println("\n== Logs: =================================================")
}
