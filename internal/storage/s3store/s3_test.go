package s3store

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/require"
)

func TestClassifyStorageClass(t *testing.T) {
	require.Equal(t, storageClassArchived, classifyStorageClass(types.StorageClassGlacier))
	require.Equal(t, storageClassArchived, classifyStorageClass(types.StorageClassDeepArchive))
	require.Equal(t, storageClassHot, classifyStorageClass(types.StorageClassStandard))
	require.Equal(t, storageClassHot, classifyStorageClass(""))
}

func TestParseRestoreHeader(t *testing.T) {
	require.Equal(t, restoreStateFrozen, parseRestoreHeader(nil))
	require.Equal(t, restoreStateThawing, parseRestoreHeader(aws.String(`ongoing-request="true"`)))
	require.Equal(t, restoreStateThawed, parseRestoreHeader(aws.String(`ongoing-request="false", expiry-date="Fri, 21 Dec 2012 00:00:00 GMT"`)))
	require.Equal(t, restoreStateFrozen, parseRestoreHeader(aws.String("garbage")))
}

func TestMemoryAvailabilityCache(t *testing.T) {
	c := newAvailabilityCache()
	require.False(t, c.IsAvailable("obj1"))

	c.MarkAvailable("obj1")
	require.True(t, c.IsAvailable("obj1"))
	require.False(t, c.IsAvailable("obj2"))
}
