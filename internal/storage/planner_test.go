package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlanSegmentsEnforcementUpload(t *testing.T) {
	segs := PlanSegments("Nguyễn Văn A", "KH001", "internal", "enforcement")
	assert.Equal(t, [4]string{"Nguyễn Văn A", "KH001", "Nội bảng", "Tài liệu Thi hành án"}, segs)
}

func TestPlanSegmentsExternalCase(t *testing.T) {
	segs := PlanSegments("Trần Thị B", "KH099", "external", "collateral")
	assert.Equal(t, "Ngoại bảng", segs[2])
	assert.Equal(t, "Tài sản đảm bảo", segs[3])
}

func TestPlanSegmentsUnknownTypeFallsBack(t *testing.T) {
	segs := PlanSegments("x", "KH001", "internal", "whatever")
	assert.Equal(t, "Tài liệu khác", segs[3])

	segs = PlanSegments("x", "KH001", "", "")
	assert.Equal(t, "Nội bảng", segs[2], "unknown case type defaults to internal")
	assert.Equal(t, "Tài liệu khác", segs[3])
}

func TestPlanSegmentsAlwaysFourNonEmpty(t *testing.T) {
	segs := PlanSegments("", "", "", "")
	for i, s := range segs {
		assert.NotEmpty(t, s, "segment %d", i)
	}
}

func TestPlanSegmentsSanitizesHostileInput(t *testing.T) {
	segs := PlanSegments("../../evil", "KH<>001", "internal", "court")
	for _, s := range segs {
		assert.NotContains(t, s, "..")
		assert.NotContains(t, s, "/")
		assert.NotContains(t, s, "<")
	}
}
