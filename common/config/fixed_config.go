package config

import (
	"github.com/fsnotify/fsnotify"
)

// Watch 监听配置文件变化，变更后重新解析并回调；解析失败时保留旧配置
func Watch(configFile string, onChange func(SelfplayConfiguration)) {
	v := newViper(configFile)
	if err := v.ReadInConfig(); err != nil {
		return
	}
	v.OnConfigChange(func(in fsnotify.Event) {
		if !in.Has(fsnotify.Write) && !in.Has(fsnotify.Create) {
			return
		}
		var cfg SelfplayConfiguration
		if err := v.Unmarshal(&cfg); err != nil {
			return
		}
		if onChange != nil {
			onChange(cfg)
		}
	})
	v.WatchConfig()
}
