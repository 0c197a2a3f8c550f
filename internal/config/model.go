package config

type LoggingCfg struct {
	Level string `json:"level" yaml:"level"`
}

type ServerCfg struct {
	Listen          string `json:"listen" yaml:"listen"`
	AllowAllOrigins bool   `json:"allowAllOrigins" yaml:"allowAllOrigins"`
}

type AssetsCfg struct {
	Dir     string `json:"dir" yaml:"dir"`         // served under /assets/ when set
	BaseURI string `json:"baseUri" yaml:"baseUri"` // prefix handed to the resource resolver
}

type BoardCfg struct {
	File       string `json:"file" yaml:"file"`
	Name       string `json:"name" yaml:"name"` // script/style base name: js/<name>.js, css/<name>.css
	Title      string `json:"title" yaml:"title"`
	DebounceMs int    `json:"debounceMs" yaml:"debounceMs"`
}

type RuntimeCfg struct {
	StateDbPath string `json:"stateDbPath" yaml:"stateDbPath"`
}

type Config struct {
	Version int        `json:"version" yaml:"version"`
	Logging LoggingCfg `json:"logging" yaml:"logging"`
	Server  ServerCfg  `json:"server" yaml:"server"`
	Assets  AssetsCfg  `json:"assets" yaml:"assets"`
	Board   BoardCfg   `json:"board" yaml:"board"`
	Runtime RuntimeCfg `json:"runtime" yaml:"runtime"`
}
