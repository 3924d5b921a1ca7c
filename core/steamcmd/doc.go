// Package steamcmd runs SteamCMD to enumerate DLC ids that the store record does not declare.
//
// The tool is invoked as
//
//	steamcmd +login anonymous +app_info_request <id> +app_info_print <id> +quit
//
// and its text output is scanned for every "listofdlc" field. Each call is bounded by a
// timeout; a missing binary, a failed probe or a timeout yields ErrUnavailable.
package steamcmd
