package app

// Command 表示應用程式的啟動模式。
type Command string

const (
	// CommandServe 表示以 webhook 伺服器模式啟動。
	CommandServe Command = "serve"
	// CommandMigrate 表示執行資料庫遷移。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck 表示執行健康檢查。
	// distroless 環境的 Docker healthcheck 用。
	CommandHealthcheck Command = "healthcheck"
)

// ParseCommand 自命令列引數解析子指令。
// 引數為空或不支援的指令時回傳 CommandServe。
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	switch args[0] {
	case "serve":
		return CommandServe
	case "migrate":
		return CommandMigrate
	case "healthcheck":
		return CommandHealthcheck
	default:
		return CommandServe
	}
}
