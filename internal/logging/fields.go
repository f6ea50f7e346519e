package logging

import "github.com/sirupsen/logrus"

// BaseFields 构建 action + 配置路径等基础字段，供 init_client 等入口复用。
func BaseFields(action, configPath string) logrus.Fields {
	return logrus.Fields{
		"action":     action,
		"configPath": configPath,
	}
}

// CallFields 描述一次资源调用：动作、资源类型与缓存键。
func CallFields(action, resource, key string) logrus.Fields {
	return logrus.Fields{
		"action":    action,
		"resource":  resource,
		"cache_key": key,
	}
}

// OriginFields 标记调用所针对的上游地址与 API 版本。
func OriginFields(origin, version string) logrus.Fields {
	return logrus.Fields{
		"origin":      origin,
		"api_version": version,
	}
}
