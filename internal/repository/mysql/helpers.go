package mysql

import (
	"artcase-backend/internal/common"
	"artcase-backend/internal/model"
	"artcase-backend/internal/repository/interfaces"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// rowScanner 同时适配 *sql.Row 和 *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

// duplicateAware 把唯一约束冲突转换为 interfaces.ErrDuplicate
func duplicateAware(err error) error {
	if common.IsDuplicateEntry(err) {
		return fmt.Errorf("%w: %v", interfaces.ErrDuplicate, err)
	}
	return err
}

// rangeClause 生成 created_at 的时间范围条件，column 需带表别名
func rangeClause(column string, r model.DateRange) (string, []interface{}) {
	var conds []string
	var args []interface{}
	if r.Start != nil {
		conds = append(conds, column+" >= ?")
		args = append(args, *r.Start)
	}
	if r.End != nil {
		conds = append(conds, column+" <= ?")
		args = append(args, *r.End)
	}
	if len(conds) == 0 {
		return "1 = 1", nil
	}
	return strings.Join(conds, " AND "), args
}

// placeholders 生成 n 个 ? 占位符
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

const userSummaryColumns = "u.id, u.username, u.first_name, u.last_name, u.profile_pic"

func scanUserSummary(s *model.UserSummary) []interface{} {
	return []interface{}{&s.ID, &s.Username, &s.FirstName, &s.LastName, &s.ProfilePic}
}
