// Package ansible adapts rookctl to the Ansible binary module protocol.
//
// Ansible invokes a binary module with the path of a JSON file holding the
// task arguments and reads a JSON result from stdout. The module accepts
// three mutually exclusive arguments, checked in this order: gather_facts
// (bool), deploy (dict) and reset (dict). The deploy and reset dicts have the
// shape of the rookctl configuration file.
package ansible
