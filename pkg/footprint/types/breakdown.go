package types

import (
	"fmt"
	"strings"
)

// ContentClass is a coarse resource category derived from a MIME type
type ContentClass string

const (
	ClassHTML       ContentClass = "html"
	ClassCSS        ContentClass = "css"
	ClassJavaScript ContentClass = "javascript"
	ClassImage      ContentClass = "image"
	ClassFont       ContentClass = "font"
	ClassAudio      ContentClass = "audio"
	ClassVideo      ContentClass = "video"
	ClassOther      ContentClass = "other"
)

const numContentClasses = 8

// ContentClasses lists every class in matching order. Classify walks this
// list front to back, so the order decides ties such as "image/font".
var ContentClasses = [numContentClasses]ContentClass{
	ClassHTML,
	ClassCSS,
	ClassJavaScript,
	ClassImage,
	ClassFont,
	ClassAudio,
	ClassVideo,
	ClassOther,
}

// Classify maps a MIME type to the first class whose name it contains.
// Anything unmatched lands in ClassOther.
func Classify(mimeType string) ContentClass {
	for _, class := range ContentClasses {
		if strings.Contains(mimeType, string(class)) {
			return class
		}
	}
	return ClassOther
}

func classIndex(class ContentClass) int {
	for i, c := range ContentClasses {
		if c == class {
			return i
		}
	}
	return len(ContentClasses) - 1
}

// ByteBreakdown is the page weight of one analysis, split by content class.
// Transfer bytes are what crossed the wire, resource bytes are the decoded size.
// The zero value is an empty page.
type ByteBreakdown struct {
	transferTotal int64
	resourceTotal int64
	transfer      [numContentClasses]int64
	resource      [numContentClasses]int64
}

// TransferTotal returns the total bytes transferred
func (b ByteBreakdown) TransferTotal() int64 { return b.transferTotal }

// ResourceTotal returns the total decoded bytes
func (b ByteBreakdown) ResourceTotal() int64 { return b.resourceTotal }

// Transfer returns the transferred bytes attributed to class
func (b ByteBreakdown) Transfer(class ContentClass) int64 {
	return b.transfer[classIndex(class)]
}

// Resource returns the decoded bytes attributed to class
func (b ByteBreakdown) Resource(class ContentClass) int64 {
	return b.resource[classIndex(class)]
}

// TransferByClass returns a copy of the per-class transfer sub-totals
func (b ByteBreakdown) TransferByClass() map[ContentClass]int64 {
	out := make(map[ContentClass]int64, len(ContentClasses))
	for i, class := range ContentClasses {
		out[class] = b.transfer[i]
	}
	return out
}

// ResourceByClass returns a copy of the per-class decoded sub-totals
func (b ByteBreakdown) ResourceByClass() map[ContentClass]int64 {
	out := make(map[ContentClass]int64, len(ContentClasses))
	for i, class := range ContentClasses {
		out[class] = b.resource[i]
	}
	return out
}

// Validate checks that no value is negative and that the per-class
// sub-totals add up to the totals.
func (b ByteBreakdown) Validate() error {
	if b.transferTotal < 0 {
		return fmt.Errorf("negative transfer total: %d", b.transferTotal)
	}
	if b.resourceTotal < 0 {
		return fmt.Errorf("negative resource total: %d", b.resourceTotal)
	}

	var transferSum, resourceSum int64
	for i, class := range ContentClasses {
		if b.transfer[i] < 0 {
			return fmt.Errorf("negative transfer bytes for %s: %d", class, b.transfer[i])
		}
		if b.resource[i] < 0 {
			return fmt.Errorf("negative resource bytes for %s: %d", class, b.resource[i])
		}
		transferSum += b.transfer[i]
		resourceSum += b.resource[i]
	}

	if transferSum != b.transferTotal {
		return fmt.Errorf("transfer sub-totals sum to %d, total is %d", transferSum, b.transferTotal)
	}
	if resourceSum != b.resourceTotal {
		return fmt.Errorf("resource sub-totals sum to %d, total is %d", resourceSum, b.resourceTotal)
	}
	return nil
}

// BreakdownBuilder accumulates observed resources into a ByteBreakdown
type BreakdownBuilder struct {
	b ByteBreakdown
}

// NewBreakdownBuilder returns an empty builder
func NewBreakdownBuilder() *BreakdownBuilder {
	return &BreakdownBuilder{}
}

// Add records one network resource. Sizes that are zero or negative are
// skipped for their dimension only, so a cached resource with a zero transfer
// size still contributes its decoded size.
func (bb *BreakdownBuilder) Add(mimeType string, transferSize, resourceSize int64) *BreakdownBuilder {
	i := classIndex(Classify(mimeType))
	if transferSize > 0 {
		bb.b.transferTotal += transferSize
		bb.b.transfer[i] += transferSize
	}
	if resourceSize > 0 {
		bb.b.resourceTotal += resourceSize
		bb.b.resource[i] += resourceSize
	}
	return bb
}

// Build returns the accumulated breakdown. The builder may keep adding
// afterwards without affecting the returned value.
func (bb *BreakdownBuilder) Build() ByteBreakdown {
	return bb.b
}

// NewByteBreakdown builds a breakdown from explicit per-class sub-totals.
// Totals are derived from the sub-totals; unknown classes are folded into
// ClassOther. No validation happens here, see Validate.
func NewByteBreakdown(transfer, resource map[ContentClass]int64) ByteBreakdown {
	var b ByteBreakdown
	for class, n := range transfer {
		b.transfer[classIndex(class)] += n
		b.transferTotal += n
	}
	for class, n := range resource {
		b.resource[classIndex(class)] += n
		b.resourceTotal += n
	}
	return b
}
