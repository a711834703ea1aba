package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/sirupsen/logrus"
)

// AzureStorage keeps reminder batches as JSON blobs in a single Azure Blob
// Storage container. Blob names carry the batch timestamp, so List with the
// batch prefix is enough to find digest candidates.
type AzureStorage struct {
	client    *azblob.Client
	container string
}

var _ StorageInterface = (*AzureStorage)(nil)

// NewAzureStorage connects to the given storage account with the default
// credential chain (managed identity in-cluster, az login locally) and makes
// sure the container exists.
func NewAzureStorage(accountName, containerName string) (*AzureStorage, error) {
	if accountName == "" {
		return nil, fmt.Errorf("storage account name is required")
	}

	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve Azure credential: %w", err)
	}

	client, err := azblob.NewClient(fmt.Sprintf("https://%s.blob.core.windows.net/", accountName), credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build blob client for account %s: %w", accountName, err)
	}

	s := &AzureStorage{client: client, container: containerName}
	if err := s.createContainerIfMissing(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *AzureStorage) createContainerIfMissing() error {
	_, err := s.client.CreateContainer(context.Background(), s.container, nil)
	switch {
	case err == nil:
		logrus.Infof("Created blob container %s", s.container)
	case strings.Contains(err.Error(), "ContainerAlreadyExists"):
		// normal on every restart
	default:
		return fmt.Errorf("failed to create container %s: %w", s.container, err)
	}
	return nil
}

// Store writes a blob, overwriting any previous version.
func (s *AzureStorage) Store(filename string, data []byte) error {
	_, err := s.client.UploadBuffer(context.Background(), s.container, filename, data, &azblob.UploadBufferOptions{
		BlockSize:   int64(1024 * 1024),
		Concurrency: 3,
	})
	if err != nil {
		return fmt.Errorf("failed to upload blob %s: %w", filename, err)
	}

	logrus.Debugf("Wrote blob %s (%d bytes)", filename, len(data))
	return nil
}

// Retrieve reads a blob back in full.
func (s *AzureStorage) Retrieve(filename string) ([]byte, error) {
	response, err := s.client.DownloadStream(context.Background(), s.container, filename, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download blob %s: %w", filename, err)
	}
	defer response.Body.Close()

	data, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", filename, err)
	}

	return data, nil
}

// List returns the names of blobs starting with prefix.
func (s *AzureStorage) List(prefix string) ([]string, error) {
	var names []string
	pager := s.client.NewListBlobsFlatPager(s.container, &azblob.ListBlobsFlatOptions{
		Prefix: &prefix,
	})

	for pager.More() {
		page, err := pager.NextPage(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to list blobs with prefix %s: %w", prefix, err)
		}
		for _, blob := range page.Segment.BlobItems {
			if blob.Name != nil {
				names = append(names, *blob.Name)
			}
		}
	}

	return names, nil
}

// Delete removes a blob. Deleting a missing blob is an error.
func (s *AzureStorage) Delete(filename string) error {
	if _, err := s.client.DeleteBlob(context.Background(), s.container, filename, nil); err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", filename, err)
	}
	return nil
}
