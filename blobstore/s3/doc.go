// Package s3 implements blobstore.Store on top of Amazon S3 using the AWS
// SDK v2. Whole-blob fetches go through the transfer manager's concurrent
// downloader; random reads use ranged GetObject calls.
package s3
