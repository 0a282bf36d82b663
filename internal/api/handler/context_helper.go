package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ERIC-757875/TutorHub/internal/model"
	"github.com/ERIC-757875/TutorHub/internal/service"
)

// parseQuery 从查询参数中提取筛选条件
// 每个可筛选列对应一个可重复的小写参数（gender、university…），
// q 为文本搜索，applied=1 表示提交过筛选表单。空值忽略。
func parseQuery(c *gin.Context) service.Query {
	values := c.Request.URL.Query()

	q := service.Query{
		Text:    strings.TrimSpace(values.Get("q")),
		Applied: values.Get("applied") == "1",
	}

	for _, f := range model.AllFields {
		raw, ok := values[f.Param()]
		if !ok {
			continue
		}
		picked := make([]string, 0, len(raw))
		for _, v := range raw {
			if v = strings.TrimSpace(v); v != "" {
				picked = append(picked, v)
			}
		}
		if len(picked) == 0 && !q.Applied {
			continue
		}
		if q.Membership == nil {
			q.Membership = make(map[model.Field][]string)
		}
		q.Membership[f] = picked
	}
	return q
}
