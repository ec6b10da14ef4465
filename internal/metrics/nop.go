package metrics

import "time"

// NopCollector は何も記録しないMetricsCollector。
// メトリクスを無効化した場合やテストで使用する。
type NopCollector struct{}

func (NopCollector) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {}
func (NopCollector) RecordValidationRejection(code string)                                         {}
func (NopCollector) RecordUserCreated()                                                            {}
func (NopCollector) RecordProActivated()                                                           {}
func (NopCollector) RecordTodoCreated()                                                            {}
func (NopCollector) RecordTodoCompleted()                                                          {}
func (NopCollector) RecordTodoDeleted()                                                            {}
