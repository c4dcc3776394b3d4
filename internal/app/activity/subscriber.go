package activity

import (
	"sort"

	"frontend/internal/utils"

	"go.uber.org/zap"
)

// Subscribe logs every event published on the bus as one structured line.
// Map payloads are flattened into fields in key order.
func Subscribe(eventBus *utils.EventBus, logger *zap.Logger) {
	log := logger.Sugar()
	eventBus.Subscribe("*", func(e utils.Event) {
		log.Infow("Activity", fields(e)...)
	})
}

func fields(e utils.Event) []interface{} {
	out := []interface{}{"event", e.Event}
	data, ok := e.Data.(map[string]interface{})
	if !ok {
		if e.Data != nil {
			out = append(out, "data", e.Data)
		}
		return out
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, k, data[k])
	}
	return out
}
