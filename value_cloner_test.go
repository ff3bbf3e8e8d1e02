package valuecache_test

import (
	"testing"

	valuecache "github.com/karupanerura/value-cache"
)

// Test structs with different cloning behaviors
type TestClonerStruct struct {
	Value int
}

func (s *TestClonerStruct) Clone() *TestClonerStruct {
	return &TestClonerStruct{
		Value: s.Value,
	}
}

type TestDeepCopyerStruct struct {
	Value int
}

func (s *TestDeepCopyerStruct) DeepCopy() *TestDeepCopyerStruct {
	return &TestDeepCopyerStruct{
		Value: s.Value,
	}
}

func TestDefaultClonerWithCloneMethod(t *testing.T) {
	t.Parallel()

	// Test with pointer type that has Clone method
	cloner := valuecache.DefaultValueCloner[*TestClonerStruct]()
	original := &TestClonerStruct{Value: 42}
	cloned := cloner.CloneValue(original)

	if original == cloned {
		t.Error("Expected different pointer, got same pointer")
	}
	if original.Value != cloned.Value {
		t.Errorf("Expected same value, got original=%d, cloned=%d", original.Value, cloned.Value)
	}

	// Modify original to verify deep copy
	original.Value = 100
	if cloned.Value != 42 {
		t.Errorf("Expected cloned value to remain unchanged, got %d", cloned.Value)
	}
}

func TestDefaultClonerWithDeepCopyMethod(t *testing.T) {
	t.Parallel()

	// Test with pointer type that has DeepCopy method
	cloner := valuecache.DefaultValueCloner[*TestDeepCopyerStruct]()
	original := &TestDeepCopyerStruct{Value: 42}
	cloned := cloner.CloneValue(original)

	if original == cloned {
		t.Error("Expected different pointer, got same pointer")
	}
	if original.Value != cloned.Value {
		t.Errorf("Expected same value, got original=%d, cloned=%d", original.Value, cloned.Value)
	}

	// Modify original to verify deep copy
	original.Value = 100
	if cloned.Value != 42 {
		t.Errorf("Expected cloned value to remain unchanged, got %d", cloned.Value)
	}
}

func TestDefaultClonerWithNoSpecialMethod(t *testing.T) {
	t.Parallel()

	// Test with pointer type that has no Clone or DeepCopy method
	type SimpleStruct struct {
		Value int
	}

	cloner := valuecache.DefaultValueCloner[*SimpleStruct]()
	original := &SimpleStruct{Value: 42}
	if cloned := cloner.CloneValue(original); cloned != original {
		t.Error("Expected same pointer for type with no special methods")
	}
}

func TestDefaultClonerWithNilPointer(t *testing.T) {
	t.Parallel()

	cloner := valuecache.DefaultValueCloner[*TestClonerStruct]()
	if cloned := cloner.CloneValue(nil); cloned != nil {
		t.Errorf("Expected nil, got %v", cloned)
	}
}

type TestClonerInterface interface {
	Clone() TestClonerInterface
}

type testClonerImpl struct {
	Values []int
}

func (s *testClonerImpl) Clone() TestClonerInterface {
	return &testClonerImpl{Values: append([]int(nil), s.Values...)}
}

func TestDefaultClonerWithInterfaceType(t *testing.T) {
	t.Parallel()

	cloner := valuecache.DefaultValueCloner[TestClonerInterface]()
	original := &testClonerImpl{Values: []int{1, 2, 3}}
	cloned := cloner.CloneValue(original).(*testClonerImpl)
	original.Values[0] = 100
	if cloned.Values[0] != 1 {
		t.Errorf("Expected cloned value to remain unchanged, got %d", cloned.Values[0])
	}

	if v := cloner.CloneValue(nil); v != nil {
		t.Errorf("Expected nil interface, got %v", v)
	}
}

func TestDefaultClonerImplementation(t *testing.T) {
	t.Parallel()

	// Verify the correct interface implementation is chosen
	clonerStruct := valuecache.DefaultValueCloner[*TestClonerStruct]()
	deepCopyerStruct := valuecache.DefaultValueCloner[*TestDeepCopyerStruct]()
	stringCloner := valuecache.DefaultValueCloner[string]()
	intCloner := valuecache.DefaultValueCloner[int]()

	// Check if the cloner is ValueClonerFunc
	_, ok := clonerStruct.(valuecache.ValueClonerFunc[*TestClonerStruct])
	if !ok {
		t.Error("Expected ValueClonerFunc for type with Clone method")
	}

	// Check if the deep copier is ValueClonerFunc
	_, ok = deepCopyerStruct.(valuecache.ValueClonerFunc[*TestDeepCopyerStruct])
	if !ok {
		t.Error("Expected ValueClonerFunc for type with DeepCopy method")
	}

	// Check if string gets NopValueCloner
	_, ok = stringCloner.(valuecache.NopValueCloner[string])
	if !ok {
		t.Error("Expected NopValueCloner for type with no special methods")
	}

	// Check if int gets NopValueCloner
	_, ok = intCloner.(valuecache.NopValueCloner[int])
	if !ok {
		t.Error("Expected NopValueCloner for type with no special methods")
	}
}
